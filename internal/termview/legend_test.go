package termview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heiportal/heidash/internal/chart"
)

func render(t *testing.T, data map[string]float64, opts chart.Options) string {
	t.Helper()
	var buf bytes.Buffer
	return New(&buf).Render(chart.Render(data, opts))
}

func TestRenderLegendRows(t *testing.T) {
	out := render(t, map[string]float64{"SUC": 1200, "LUC": 0, "Private": 1200}, chart.DefaultOptions())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5, out)

	assert.Contains(t, lines[0], "TOTAL 2,400")
	assert.Contains(t, lines[1], "─")

	assert.Contains(t, lines[2], "State Universities and Colleges")
	assert.Contains(t, lines[2], "50.0%")
	assert.Contains(t, lines[2], "1,200")
	assert.Contains(t, lines[2], strings.Repeat(filledBlock, 10)+strings.Repeat(emptyBlock, 10))

	assert.Contains(t, lines[3], "Local Universities and Colleges")
	assert.Contains(t, lines[3], "No data")
	assert.NotContains(t, lines[3], "%")

	assert.Contains(t, lines[4], "Private HEIs")
}

func TestRenderUsesCenterLabel(t *testing.T) {
	opts := chart.DefaultOptions()
	opts.CenterLabel = func(total float64) string { return "many" }
	out := render(t, map[string]float64{"SUC": 3}, opts)
	assert.Contains(t, out, "TOTAL many")
}

func TestRenderPrecision(t *testing.T) {
	opts := chart.DefaultOptions()
	opts.PercentPrecision = 2
	out := render(t, map[string]float64{"SUC": 1, "LUC": 2}, opts)
	assert.Contains(t, out, "33.33%")
	assert.Contains(t, out, "66.67%")
}

func TestRenderEmptyState(t *testing.T) {
	out := render(t, map[string]float64{}, chart.DefaultOptions())
	assert.Contains(t, out, chart.DefaultEmptyMessage)
	assert.Contains(t, out, chart.DefaultEmptySubtext)
	assert.NotContains(t, out, "TOTAL")
	assert.Contains(t, out, "╭", "empty state should be boxed")
}

func TestBar(t *testing.T) {
	l := New(&bytes.Buffer{})
	l.BarWidth = 4

	tests := []struct {
		pct  float64
		want string
	}{
		{0, "░░░░"},
		{25, "█░░░"},
		{50, "██░░"},
		{100, "████"},
		{140, "████"},
		{-5, "░░░░"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.bar(tt.pct), "pct %v", tt.pct)
	}

	l.BarWidth = 0
	assert.Equal(t, 2, len([]rune(l.bar(50))), "width clamps to 2")
}
