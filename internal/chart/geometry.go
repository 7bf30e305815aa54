package chart

import (
	"fmt"
	"math"
)

// Point is an SVG user-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointOnCircle returns the point at angle degrees (chart frame) on the
// circle of radius g.Radius around (g.CX, g.CY).
func PointOnCircle(g Geometry, angle float64) Point {
	return pointAt(g, g.Radius, angle)
}

func pointAt(g Geometry, r, angle float64) Point {
	theta := (angle + g.StartOffset) * math.Pi / 180
	return Point{
		X: g.CX + r*math.Cos(theta),
		Y: g.CY + r*math.Sin(theta),
	}
}

// ArcPath returns a closed wedge path from the center through the arc
// spanning [start, end] degrees, drawn clockwise. largeArc is set when the
// sweep exceeds 180°. A sweep of a full 360° is degenerate for SVG arcs;
// callers draw a circle instead.
func ArcPath(g Geometry, start, end float64) (path string, largeArc bool) {
	p1 := PointOnCircle(g, start)
	p2 := PointOnCircle(g, end)
	largeArc = end-start > 180
	flag := 0
	if largeArc {
		flag = 1
	}
	path = fmt.Sprintf("M%s,%s L%s,%s A%s,%s 0 %d,1 %s,%s Z",
		coord(g.CX), coord(g.CY),
		coord(p1.X), coord(p1.Y),
		coord(g.Radius), coord(g.Radius),
		flag,
		coord(p2.X), coord(p2.Y))
	return path, largeArc
}

// coord formats a coordinate with two decimals, folding -0.00 to 0.00.
func coord(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
