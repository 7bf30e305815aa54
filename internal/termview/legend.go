// Package termview prints rendered donuts to a terminal.
package termview

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heiportal/heidash/internal/chart"
	"github.com/heiportal/heidash/pkg/format"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	swatch      = "●"

	// DefaultBarWidth is the bar length, in cells, of a 100% row.
	DefaultBarWidth = 20
)

var (
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
)

// Legend renders a chart.Donut as a colored legend with percentage bars.
type Legend struct {
	BarWidth int

	header lipgloss.Style
	fg     lipgloss.Style
	dim    lipgloss.Style
	box    lipgloss.Style
	r      *lipgloss.Renderer
}

// New returns a Legend whose color profile matches out.
func New(out io.Writer) *Legend {
	r := lipgloss.NewRenderer(out)
	return &Legend{
		BarWidth: DefaultBarWidth,
		header:   r.NewStyle().Foreground(colorHeader).Bold(true),
		fg:       r.NewStyle().Foreground(colorFg),
		dim:      r.NewStyle().Foreground(colorDim),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(1, 2),
		r: r,
	}
}

// Render returns the legend for d. An empty donut renders its empty
// state in a box.
func (l *Legend) Render(d chart.Donut) string {
	if d.IsEmpty() {
		return l.box.Render(l.fg.Render(d.Empty.Message) + "\n" + l.dim.Render(d.Empty.Subtext))
	}

	title := "TOTAL " + format.Count(d.Total)
	if d.CenterLabel != "" {
		title = "TOTAL " + d.CenterLabel
	}

	labelWidth := 0
	for _, e := range d.Legend {
		if w := lipgloss.Width(e.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(l.header.Render(title))
	b.WriteString("\n")
	b.WriteString(l.dim.Render(strings.Repeat("─", lipgloss.Width(title))))
	for _, e := range d.Legend {
		b.WriteString("\n")
		b.WriteString(l.row(e, labelWidth, d.Precision))
	}
	return b.String()
}

func (l *Legend) row(e chart.LegendEntry, labelWidth, precision int) string {
	label := e.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(e.Label))
	if e.NoData {
		return fmt.Sprintf("%s %s  %s  %s",
			l.dim.Render(swatch), l.dim.Render(label), l.dim.Render(l.bar(0)), l.dim.Render("No data"))
	}

	color := l.r.NewStyle().Foreground(lipgloss.Color(e.LegendColor))
	pct := format.Percent(e.Percentage, precision)
	return fmt.Sprintf("%s %s  %s  %7s  %s",
		color.Render(swatch), l.fg.Render(label), color.Render(l.bar(e.Percentage)),
		pct, l.dim.Render(format.Count(e.Value)))
}

// bar draws pct (0-100) as filled and empty blocks.
func (l *Legend) bar(pct float64) string {
	width := l.BarWidth
	if width < 2 {
		width = 2
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
