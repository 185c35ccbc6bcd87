package sink

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/salesmap/pkg/render/color"
)

func TestRenderSVGTiles(t *testing.T) {
	root := sampleTree(t)
	doc := parse(t, RenderSVG(root))

	svg := doc.Find("svg#treemap")
	if svg.Length() != 1 {
		t.Fatal("missing svg#treemap")
	}
	if w, _ := svg.Attr("width"); w != "1200" {
		t.Errorf("width = %q, want 1200", w)
	}
	if h, _ := svg.Attr("height"); h != "600" {
		t.Errorf("height = %q, want 600", h)
	}

	tiles := doc.Find("rect.tile")
	if tiles.Length() != 5 {
		t.Fatalf("tiles = %d, want 5", tiles.Length())
	}

	byName := map[string]*goquery.Selection{}
	tiles.Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("data-name")
		byName[name] = s
		if stroke, _ := s.Attr("stroke"); stroke != "white" {
			t.Errorf("%s stroke = %q, want white", name, stroke)
		}
	})

	sports := byName["Wii Sports"]
	if sports == nil {
		t.Fatal("no tile for Wii Sports")
	}
	if v, _ := sports.Attr("data-value"); v != "82.53" {
		t.Errorf("data-value = %q, want 82.53", v)
	}
	if c, _ := sports.Attr("data-category"); c != "Wii" {
		t.Errorf("data-category = %q, want Wii", c)
	}

	mystery := byName["Mystery"]
	if mystery == nil {
		t.Fatal("no tile for Mystery")
	}
	if v, _ := mystery.Attr("data-value"); v != "0" {
		t.Errorf("missing value rendered as %q, want 0", v)
	}
	if c, _ := mystery.Attr("data-category"); c != "0" {
		t.Errorf("missing category rendered as %q, want 0", c)
	}

	if byName["Tom & Jerry <Deluxe>"] == nil {
		t.Error("escaped name did not round-trip")
	}
}

func TestRenderSVGColoursByGroup(t *testing.T) {
	root := sampleTree(t)
	scale := color.ForTree(root)
	doc := parse(t, RenderSVG(root, WithScale(scale)))

	fills := map[string]string{}
	doc.Find("rect.tile").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("data-name")
		fills[name], _ = s.Attr("fill")
	})

	if fills["Wii Sports"] != fills["Mario Kart Wii"] {
		t.Error("Wii tiles should share a colour")
	}
	if fills["Super Mario Bros."] != fills["Tom & Jerry <Deluxe>"] {
		t.Error("NES tiles should share a colour")
	}
	if fills["Wii Sports"] == fills["Super Mario Bros."] {
		t.Error("different groups should have different colours")
	}
	if got := fills["Wii Sports"]; got != scale.Color("Video Game Sales Data Top 100/Wii") {
		t.Errorf("Wii fill = %s, want scale colour", got)
	}
}

func TestRenderSVGCells(t *testing.T) {
	root := sampleTree(t)
	doc := parse(t, RenderSVG(root))

	groups := doc.Find("g")
	if groups.Length() != len(root.Descendants()) {
		t.Errorf("groups = %d, want %d", groups.Length(), len(root.Descendants()))
	}
	if fill, _ := groups.First().Find("rect").Attr("fill"); fill != "none" {
		t.Errorf("outline fill = %q, want none", fill)
	}

	labels := doc.Find("text.game")
	if labels.Length() != 5 {
		t.Errorf("labels = %d, want one per depth-2 node (5)", labels.Length())
	}
	labels.Each(func(_ int, s *goquery.Selection) {
		if s.Text() == "Wii" || s.Text() == "Video Game Sales Data Top 100" {
			t.Errorf("shallow node %q labelled", s.Text())
		}
		if dx, _ := s.Attr("dx"); dx != "4" {
			t.Errorf("dx = %q, want 4", dx)
		}
		if dy, _ := s.Attr("dy"); dy != "14" {
			t.Errorf("dy = %q, want 14", dy)
		}
	})

	if tr, _ := groups.First().Attr("transform"); tr != "translate(0,0)" {
		t.Errorf("root transform = %q", tr)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	root := sampleTree(t)

	plain := string(RenderSVG(root))
	if strings.Contains(plain, "<script") {
		t.Error("script emitted without WithTooltip")
	}

	out := string(RenderSVG(root, WithTooltip(), WithTitle("Sales"), WithID("chart")))
	if !strings.Contains(out, "<script") || !strings.Contains(out, "getElementById('tooltip')") {
		t.Error("WithTooltip did not emit the tooltip script")
	}
	if !strings.Contains(out, "<title>Sales</title>") {
		t.Error("WithTitle did not emit a title")
	}
	if !strings.Contains(out, `id="chart"`) {
		t.Error("WithID not applied")
	}
	if !strings.Contains(out, "<title>Wii Sports&#xA;Category: Wii&#xA;Value: 82.53</title>") {
		t.Error("tiles should carry a plain-text title with WithTooltip")
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 1200: "1200", 12.3456: "12.346", 0.1 + 0.2: "0.3", -4.5: "-4.5"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
