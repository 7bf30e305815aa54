// Package chart renders dashboard donut charts for heidash.
//
// Render turns a category→value mapping into slice geometry, legend rows
// and a center label. It does no I/O, and equal inputs produce equal
// output. SVG turns that output into an SVG document.
package chart

import (
	"math"
	"strings"

	"github.com/heiportal/heidash/pkg/format"
)

// ════════════════════════════════════════════════════════════════════
// Configuration
// ════════════════════════════════════════════════════════════════════

const (
	// MinVisiblePercent is the share below which a category is left out of
	// the slice geometry. It stays in the legend.
	MinVisiblePercent = 0.1

	// PercentPrecision is the number of decimals percentages are rounded to.
	PercentPrecision = 1

	// NoVisibilityFilter as Options.MinVisiblePercent draws every category
	// whose rounded share is above zero.
	NoVisibilityFilter = -1

	// WholePercent as Options.PercentPrecision rounds to whole percentages.
	WholePercent = -1

	// DefaultGradientPrefix prefixes every generated gradient id.
	DefaultGradientPrefix = "donut"

	DefaultEmptyMessage = "No data available"
	DefaultEmptySubtext = "There are no records for the selected period."
)

// CategoryConfig describes one data series: which key it reads from the
// input mapping and how it is drawn.
type CategoryConfig struct {
	Key         string `json:"key"          yaml:"key"          validate:"required"`
	Label       string `json:"label"        yaml:"label"`
	ColorStart  string `json:"color_start"  yaml:"color_start"`
	ColorEnd    string `json:"color_end"    yaml:"color_end"`
	LegendColor string `json:"legend_color" yaml:"legend_color"`
}

// DisplayLabel returns the label, falling back to the key.
func (c CategoryConfig) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// DefaultCategories returns the three institution-type categories used by
// the portal dashboards. Each call returns a fresh slice.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{
			Key:         "SUC",
			Label:       "State Universities and Colleges",
			ColorStart:  "#3b82f6",
			ColorEnd:    "#1d4ed8",
			LegendColor: "#2563eb",
		},
		{
			Key:         "LUC",
			Label:       "Local Universities and Colleges",
			ColorStart:  "#22c55e",
			ColorEnd:    "#15803d",
			LegendColor: "#16a34a",
		},
		{
			Key:         "Private",
			Label:       "Private HEIs",
			ColorStart:  "#f59e0b",
			ColorEnd:    "#b45309",
			LegendColor: "#d97706",
		},
	}
}

// Geometry fixes the drawing surface. Angles handed to PointOnCircle are
// in the chart frame (0 = first slice start); StartOffset rotates that
// frame, in degrees, before converting to coordinates.
type Geometry struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	Radius      float64 `json:"radius"`
	InnerRadius float64 `json:"inner_radius"`
	StartOffset float64 `json:"start_offset"`
}

// DefaultGeometry returns a 200x200 surface with the first slice starting
// at 12 o'clock.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:       200,
		Height:      200,
		CX:          100,
		CY:          100,
		Radius:      90,
		InnerRadius: 60,
		StartOffset: -90,
	}
}

// LabelFormatter maps the chart total to the center label text.
type LabelFormatter func(total float64) string

// Options controls one render pass. Zero fields fall back to the
// defaults; set NoVisibilityFilter or WholePercent to turn the filter off
// or drop the decimals.
type Options struct {
	Categories        []CategoryConfig
	CenterLabel       LabelFormatter
	Legend            LegendRenderer
	GradientPrefix    string
	Geometry          Geometry
	MinVisiblePercent float64
	PercentPrecision  int
	EmptyMessage      string
	EmptySubtext      string
}

// DefaultOptions returns options for the default HEI categories.
func DefaultOptions() Options {
	return Options{
		Categories:        DefaultCategories(),
		CenterLabel:       format.Count,
		Legend:            DefaultLegendRenderer{},
		GradientPrefix:    DefaultGradientPrefix,
		Geometry:          DefaultGeometry(),
		MinVisiblePercent: MinVisiblePercent,
		PercentPrecision:  PercentPrecision,
		EmptyMessage:      DefaultEmptyMessage,
		EmptySubtext:      DefaultEmptySubtext,
	}
}

// withDefaults fills zero-valued fields. Categories are left alone: an
// empty list is the caller's precondition to satisfy.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CenterLabel == nil {
		o.CenterLabel = d.CenterLabel
	}
	if o.Legend == nil {
		o.Legend = d.Legend
	}
	if o.GradientPrefix == "" {
		o.GradientPrefix = d.GradientPrefix
	}
	if o.Geometry.Radius <= 0 {
		o.Geometry = d.Geometry
	}
	if o.MinVisiblePercent == 0 {
		o.MinVisiblePercent = d.MinVisiblePercent
	}
	switch {
	case o.PercentPrecision == 0:
		o.PercentPrecision = d.PercentPrecision
	case o.PercentPrecision < 0:
		o.PercentPrecision = 0
	}
	if o.EmptyMessage == "" {
		o.EmptyMessage = d.EmptyMessage
	}
	if o.EmptySubtext == "" {
		o.EmptySubtext = d.EmptySubtext
	}
	return o
}

// ════════════════════════════════════════════════════════════════════
// Output
// ════════════════════════════════════════════════════════════════════

// Segment is one rendered slice.
type Segment struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	ColorStart string  `json:"color_start"`
	ColorEnd   string  `json:"color_end"`
	GradientID string  `json:"gradient_id"`
	Path       string  `json:"path,omitempty"`
	FullCircle bool    `json:"full_circle"`
	LargeArc   bool    `json:"large_arc"`
}

// LegendEntry is one legend row. Every configured category gets one when
// the total is positive, whether or not it was drawn.
type LegendEntry struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Percentage  float64 `json:"percentage"`
	LegendColor string  `json:"legend_color"`
	NoData      bool    `json:"no_data"`
	Rendered    bool    `json:"rendered"`
	Text        string  `json:"text"`
}

// EmptyState replaces the chart when the total is zero.
type EmptyState struct {
	Message string `json:"message"`
	Subtext string `json:"subtext"`
}

// Donut is the full result of one render pass.
type Donut struct {
	Total       float64       `json:"total"`
	CenterLabel string        `json:"center_label,omitempty"`
	Segments    []Segment     `json:"segments,omitempty"`
	Legend      []LegendEntry `json:"legend,omitempty"`
	Empty       *EmptyState   `json:"empty,omitempty"`
	Geometry    Geometry      `json:"geometry"`
	Precision   int           `json:"precision"` // decimals carried by legend percentages
}

// IsEmpty reports whether the render produced the empty state.
func (d Donut) IsEmpty() bool {
	return d.Empty != nil
}

// ════════════════════════════════════════════════════════════════════
// Render
// ════════════════════════════════════════════════════════════════════

// Render computes slice geometry, legend rows and the center label for
// data over opts.Categories. Keys missing from data count as 0; negative
// and non-finite values are clamped to 0. Render never fails: a zero or
// overflowing total yields the empty state instead of geometry.
//
// Each category's percentage is rounded once; legend rows and slice
// geometry both read that rounded value.
func Render(data map[string]float64, opts Options) Donut {
	opts = opts.withDefaults()

	values := make([]float64, len(opts.Categories))
	total := 0.0
	for i, c := range opts.Categories {
		values[i] = sanitize(data[c.Key])
		total += values[i]
	}

	out := Donut{Total: total, Geometry: opts.Geometry, Precision: opts.PercentPrecision}
	if total <= 0 || math.IsInf(total, 0) {
		out.Total = 0
		out.Empty = &EmptyState{Message: opts.EmptyMessage, Subtext: opts.EmptySubtext}
		return out
	}

	out.CenterLabel = opts.CenterLabel(total)

	type visible struct {
		idx int
		pct float64
	}
	shown := make([]visible, 0, len(opts.Categories))
	dropped := false
	out.Legend = make([]LegendEntry, len(opts.Categories))
	for i, c := range opts.Categories {
		rounded := RoundPercent(Percent(values[i], total), opts.PercentPrecision)
		rendered := rounded > 0 && rounded >= opts.MinVisiblePercent
		if rendered {
			shown = append(shown, visible{idx: i, pct: rounded})
		} else if values[i] > 0 {
			dropped = true
		}
		out.Legend[i] = LegendEntry{
			Key:         c.Key,
			Label:       c.DisplayLabel(),
			Value:       values[i],
			Percentage:  rounded,
			LegendColor: c.LegendColor,
			NoData:      values[i] == 0,
			Rendered:    rendered,
			Text: opts.Legend.RenderLegendItem(LegendItem{
				Category:   c,
				Value:      values[i],
				Percentage: rounded,
				Total:      total,
				Precision:  opts.PercentPrecision,
			}),
		}
	}

	if len(shown) == 0 {
		return out
	}

	out.Segments = make([]Segment, 0, len(shown))
	if len(shown) == 1 {
		c := opts.Categories[shown[0].idx]
		out.Segments = append(out.Segments, Segment{
			Key:        c.Key,
			Label:      c.DisplayLabel(),
			Value:      values[shown[0].idx],
			Percentage: shown[0].pct,
			StartAngle: 0,
			EndAngle:   360,
			ColorStart: c.ColorStart,
			ColorEnd:   c.ColorEnd,
			GradientID: GradientID(opts.GradientPrefix, c.Key),
			FullCircle: true,
			LargeArc:   true,
		})
		return out
	}

	// Zero-value categories take no angle, so the ring closes at exactly
	// 360° unless a non-zero slice was filtered out. Rounded shares can sum
	// past 100, hence the clamp.
	current := 0.0
	for n, v := range shown {
		c := opts.Categories[v.idx]
		end := math.Min(current+360*v.pct/100, 360)
		if !dropped && n == len(shown)-1 {
			end = 360
		}
		path, large := ArcPath(opts.Geometry, current, end)
		out.Segments = append(out.Segments, Segment{
			Key:        c.Key,
			Label:      c.DisplayLabel(),
			Value:      values[v.idx],
			Percentage: v.pct,
			StartAngle: current,
			EndAngle:   end,
			ColorStart: c.ColorStart,
			ColorEnd:   c.ColorEnd,
			GradientID: GradientID(opts.GradientPrefix, c.Key),
			Path:       path,
			LargeArc:   large,
		})
		current = end
	}
	return out
}

// Percent returns value as a percentage of total, or 0 when total is not
// positive. Dividing first keeps values near MaxFloat64 finite.
func Percent(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return value / total * 100
}

// RoundPercent rounds a percentage for display.
func RoundPercent(p float64, precision int) float64 {
	return format.Round(p, precision)
}

// GradientID derives an SVG-safe gradient id from prefix and key. Keys
// differing only in case map to the same id.
func GradientID(prefix, key string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('-')
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
