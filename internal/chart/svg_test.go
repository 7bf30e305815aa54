package chart

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseSVG(t *testing.T, svg string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(svg))
	if err != nil {
		t.Fatalf("parse SVG: %v", err)
	}
	return doc
}

func TestSVGMultiSegment(t *testing.T) {
	svg := SVG(Render(hei(50, 0, 50), DefaultOptions()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not a standalone SVG document: %.80s", svg)
	}

	doc := parseSVG(t, svg)

	paths := doc.Find("path.segment")
	if paths.Length() != 2 {
		t.Fatalf("segment paths: got %d, want 2", paths.Length())
	}
	if doc.Find("circle.segment").Length() != 0 {
		t.Error("multi-segment chart should not draw a full circle")
	}
	if key, _ := paths.First().Attr("data-key"); key != "SUC" {
		t.Errorf("first path key: got %q", key)
	}
	if fill, _ := paths.Last().Attr("fill"); fill != "url(#donut-private)" {
		t.Errorf("Private fill: got %q", fill)
	}
	if doc.Find("stop").Length() != 4 {
		t.Errorf("gradient stops: got %d, want 4", doc.Find("stop").Length())
	}

	if got := doc.Find("text.center-label").Text(); got != "100" {
		t.Errorf("center label: got %q", got)
	}
	if doc.Find("circle.donut-hole").Length() != 1 {
		t.Error("expected a donut hole")
	}

	items := doc.Find("g.legend-item")
	if items.Length() != 3 {
		t.Fatalf("legend items: got %d, want 3", items.Length())
	}
	luc := doc.Find(`g.legend-item[data-key="LUC"]`)
	if v, _ := luc.Attr("data-no-data"); v != "true" {
		t.Errorf("LUC data-no-data: got %q", v)
	}
	if fill, _ := luc.Find("rect").Attr("fill"); fill != noDataColor {
		t.Errorf("LUC swatch: got %q, want %q", fill, noDataColor)
	}
	if got := luc.Find("text").Text(); got != "Local Universities and Colleges: No data" {
		t.Errorf("LUC legend text: got %q", got)
	}
}

func TestSVGSingleSegmentDrawsCircle(t *testing.T) {
	doc := parseSVG(t, SVG(Render(hei(1, 0, 9999), DefaultOptions())))

	if doc.Find("path.segment").Length() != 0 {
		t.Error("single segment should not be drawn as an arc")
	}
	circle := doc.Find("circle.segment")
	if circle.Length() != 1 {
		t.Fatalf("full circles: got %d, want 1", circle.Length())
	}
	if r, _ := circle.Attr("r"); r != "90.00" {
		t.Errorf("circle radius: got %q", r)
	}
	if doc.Find("g.legend-item").Length() != 3 {
		t.Error("filtered categories must stay in the legend")
	}
}

func TestSVGEmptyState(t *testing.T) {
	opts := DefaultOptions()
	opts.EmptyMessage = "No HEIs"
	opts.EmptySubtext = "Nothing submitted for AY 2025–2026"
	doc := parseSVG(t, SVG(Render(hei(0, 0, 0), opts)))

	if doc.Find(".segment").Length() != 0 {
		t.Error("empty state should draw no segments")
	}
	if doc.Find("g.legend-item").Length() != 0 {
		t.Error("empty state should draw no legend")
	}
	if got := doc.Find("text.empty-message").Text(); got != "No HEIs" {
		t.Errorf("empty message: got %q", got)
	}
	if got := doc.Find("text.empty-subtext").Text(); got != "Nothing submitted for AY 2025–2026" {
		t.Errorf("empty subtext: got %q", got)
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.Categories = []CategoryConfig{{Key: "a", Label: `R&D <"labs">`}, {Key: "b"}}
	svg := SVG(Render(map[string]float64{"a": 1, "b": 1}, opts))

	if strings.Contains(svg, `<"labs">`) {
		t.Error("label was not escaped")
	}
	doc := parseSVG(t, svg)
	if got := doc.Find(`g.legend-item[data-key="a"] text`).Text(); !strings.HasPrefix(got, `R&D <"labs">`) {
		t.Errorf("decoded legend text: got %q", got)
	}
}
