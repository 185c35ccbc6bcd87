package sink

import (
	"fmt"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/salesmap/pkg/render/legend"
)

func TestRenderLegend(t *testing.T) {
	entries := []legend.Entry{
		{Key: "r/Wii", Label: "Wii", Color: "#1f77b4"},
		{Key: "r/NES", Label: "NES & Famicom", Color: "#ff7f0e"},
		{Key: "r/PS4", Label: "PS4", Color: "#2ca02c"},
	}
	doc := parse(t, RenderLegend(entries))

	svg := doc.Find("svg#legend")
	if w, _ := svg.Attr("width"); w != "200" {
		t.Errorf("width = %q, want 200", w)
	}
	if h, _ := svg.Attr("height"); h != "300" {
		t.Errorf("height = %q, want 300", h)
	}

	rows := doc.Find("g.legend-label")
	if rows.Length() != len(entries) {
		t.Fatalf("rows = %d, want %d", rows.Length(), len(entries))
	}
	rows.Each(func(i int, s *goquery.Selection) {
		if tr, _ := s.Attr("transform"); tr != fmt.Sprintf("translate(-40,%d)", 240-i*20) {
			t.Errorf("row %d transform = %q", i, tr)
		}
		rect := s.Find("rect.legend-item")
		if fill, _ := rect.Attr("fill"); fill != entries[i].Color {
			t.Errorf("row %d fill = %q, want %q", i, fill, entries[i].Color)
		}
		if x, _ := rect.Attr("x"); x != "182" {
			t.Errorf("row %d rect x = %q, want 182", i, x)
		}
		if w, _ := rect.Attr("width"); w != "18" {
			t.Errorf("row %d rect width = %q, want 18", i, w)
		}
		text := s.Find("text")
		if text.Text() != entries[i].Label {
			t.Errorf("row %d label = %q, want %q", i, text.Text(), entries[i].Label)
		}
		if x, _ := text.Attr("x"); x != "176" {
			t.Errorf("row %d text x = %q, want 176", i, x)
		}
	})
}

func TestRenderLegendEmpty(t *testing.T) {
	doc := parse(t, RenderLegend(nil))
	if doc.Find("svg#legend").Length() != 1 {
		t.Error("empty legend should still render the svg")
	}
	if doc.Find("g").Length() != 0 {
		t.Error("empty legend should have no rows")
	}
}
