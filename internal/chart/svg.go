package chart

import (
	"fmt"
	"strings"
)

// SVG layout constants for the legend block drawn under the chart.
const (
	legendRowHeight = 22
	legendPadding   = 12
	legendSwatch    = 12
	noDataColor     = "#d1d5db"
)

// SVG renders d as a standalone SVG document: gradients, slices, the
// donut hole, the center label and one legend row per entry.
func SVG(d Donut) string {
	g := d.Geometry
	if g.Radius <= 0 {
		g = DefaultGeometry()
	}

	if d.IsEmpty() {
		return emptySVG(g, d.Empty.Message, d.Empty.Subtext)
	}

	height := g.Height
	if len(d.Legend) > 0 {
		height += legendPadding + len(d.Legend)*legendRowHeight
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(g.Width, height))

	// Gradients
	sb.WriteString("<defs>")
	for _, s := range d.Segments {
		sb.WriteString(fmt.Sprintf(`<linearGradient id="%s" x1="0%%" y1="0%%" x2="100%%" y2="100%%">`, escapeXML(s.GradientID)))
		sb.WriteString(fmt.Sprintf(`<stop offset="0%%" stop-color="%s"/>`, escapeXML(fallbackColor(s.ColorStart))))
		sb.WriteString(fmt.Sprintf(`<stop offset="100%%" stop-color="%s"/>`, escapeXML(fallbackColor(s.ColorEnd))))
		sb.WriteString("</linearGradient>")
	}
	sb.WriteString("</defs>")

	// Slices
	for _, s := range d.Segments {
		if s.FullCircle {
			sb.WriteString(fmt.Sprintf(`<circle class="segment" data-key="%s" cx="%s" cy="%s" r="%s" fill="url(#%s)"/>`,
				escapeXML(s.Key), coord(g.CX), coord(g.CY), coord(g.Radius), escapeXML(s.GradientID)))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path class="segment" data-key="%s" d="%s" fill="url(#%s)" stroke="#ffffff" stroke-width="1"/>`,
			escapeXML(s.Key), s.Path, escapeXML(s.GradientID)))
	}

	// Hole + center label
	if g.InnerRadius > 0 && g.InnerRadius < g.Radius {
		sb.WriteString(fmt.Sprintf(`<circle class="donut-hole" cx="%s" cy="%s" r="%s" fill="#ffffff"/>`,
			coord(g.CX), coord(g.CY), coord(g.InnerRadius)))
	}
	if d.CenterLabel != "" {
		sb.WriteString(fmt.Sprintf(`<text class="center-label" x="%s" y="%s" font-size="20" font-weight="bold" fill="#111827" text-anchor="middle" dominant-baseline="middle">%s</text>`,
			coord(g.CX), coord(g.CY), escapeXML(d.CenterLabel)))
	}

	// Legend
	for i, e := range d.Legend {
		y := g.Height + legendPadding + i*legendRowHeight
		color := fallbackColor(e.LegendColor)
		opacity := "1"
		if e.NoData {
			color = noDataColor
			opacity = "0.6"
		}
		sb.WriteString(fmt.Sprintf(`<g class="legend-item" data-key="%s" data-no-data="%t" opacity="%s">`,
			escapeXML(e.Key), e.NoData, opacity))
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="%s"/>`,
			legendPadding, y, legendSwatch, legendSwatch, escapeXML(color)))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="11" fill="#374151">%s</text>`,
			legendPadding+legendSwatch+6, y+legendSwatch-2, escapeXML(e.Text)))
		sb.WriteString("</g>")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(width, height int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		width, height, width, height)
}

func emptySVG(g Geometry, msg, subtext string) string {
	w, h := g.Width, g.Height
	if w == 0 {
		w = 200
	}
	if h == 0 {
		h = 200
	}
	var sb strings.Builder
	sb.WriteString(svgHeader(w, h))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f9fafb"/>`, w, h))
	sb.WriteString(fmt.Sprintf(`<text class="empty-message" x="%d" y="%d" text-anchor="middle" fill="#6b7280" font-size="14">%s</text>`,
		w/2, h/2-4, escapeXML(msg)))
	sb.WriteString(fmt.Sprintf(`<text class="empty-subtext" x="%d" y="%d" text-anchor="middle" fill="#9ca3af" font-size="11">%s</text>`,
		w/2, h/2+14, escapeXML(subtext)))
	sb.WriteString("</svg>")
	return sb.String()
}

func fallbackColor(c string) string {
	if c == "" {
		return noDataColor
	}
	return c
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
