package chart

import (
	"fmt"

	"github.com/heiportal/heidash/pkg/format"
)

// LegendItem is the input handed to a LegendRenderer for one category.
// Percentage is already rounded to Precision decimals.
type LegendItem struct {
	Category   CategoryConfig
	Value      float64
	Percentage float64
	Total      float64
	Precision  int
}

// LegendRenderer produces the display text of one legend row.
type LegendRenderer interface {
	RenderLegendItem(item LegendItem) string
}

// LegendRendererFunc adapts a plain function to LegendRenderer.
type LegendRendererFunc func(item LegendItem) string

// RenderLegendItem calls f(item).
func (f LegendRendererFunc) RenderLegendItem(item LegendItem) string {
	return f(item)
}

// DefaultLegendRenderer renders "Label: 1,234 (50.0%)", or "Label: No data"
// for a zero value.
type DefaultLegendRenderer struct{}

// RenderLegendItem implements LegendRenderer.
func (DefaultLegendRenderer) RenderLegendItem(item LegendItem) string {
	label := item.Category.DisplayLabel()
	if item.Value == 0 {
		return fmt.Sprintf("%s: No data", label)
	}
	return fmt.Sprintf("%s: %s (%s)", label, format.Count(item.Value), format.Percent(item.Percentage, item.Precision))
}
