package chart

import (
	"math"
	"testing"
)

func TestPointOnCircle(t *testing.T) {
	g := DefaultGeometry()
	tests := []struct {
		angle float64
		x, y  float64
	}{
		{0, 100, 10},    // 12 o'clock
		{90, 190, 100},  // 3 o'clock
		{180, 100, 190}, // 6 o'clock
		{270, 10, 100},  // 9 o'clock
		{360, 100, 10},
	}

	for _, tt := range tests {
		p := PointOnCircle(g, tt.angle)
		if math.Abs(p.X-tt.x) > 1e-9 || math.Abs(p.Y-tt.y) > 1e-9 {
			t.Errorf("PointOnCircle(%v) = (%f, %f), want (%f, %f)", tt.angle, p.X, p.Y, tt.x, tt.y)
		}
	}
}

func TestPointOnCircleWithoutOffset(t *testing.T) {
	g := Geometry{CX: 0, CY: 0, Radius: 1}
	p := PointOnCircle(g, 0)
	if math.Abs(p.X-1) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Errorf("angle 0 without offset: got (%f, %f), want (1, 0)", p.X, p.Y)
	}
}

func TestArcPath(t *testing.T) {
	g := DefaultGeometry()
	tests := []struct {
		name       string
		start, end float64
		path       string
		large      bool
	}{
		{
			name:  "half",
			start: 0, end: 180,
			path:  "M100.00,100.00 L100.00,10.00 A90.00,90.00 0 0,1 100.00,190.00 Z",
			large: false,
		},
		{
			name:  "quarter",
			start: 0, end: 90,
			path:  "M100.00,100.00 L100.00,10.00 A90.00,90.00 0 0,1 190.00,100.00 Z",
			large: false,
		},
		{
			name:  "three quarters",
			start: 90, end: 360,
			path:  "M100.00,100.00 L190.00,100.00 A90.00,90.00 0 1,1 100.00,10.00 Z",
			large: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, large := ArcPath(g, tt.start, tt.end)
			if path != tt.path {
				t.Errorf("path:\n got %q\nwant %q", path, tt.path)
			}
			if large != tt.large {
				t.Errorf("largeArc: got %v, want %v", large, tt.large)
			}
		})
	}
}

func TestCoordFoldsNegativeZero(t *testing.T) {
	if got := coord(-0.0001); got != "0.00" {
		t.Errorf("coord(-0.0001) = %q, want 0.00", got)
	}
	if got := coord(12.345678); got != "12.35" {
		t.Errorf("coord(12.345678) = %q", got)
	}
}
