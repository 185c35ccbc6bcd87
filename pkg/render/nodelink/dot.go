package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render"
	"github.com/matzehuels/salesmap/pkg/render/color"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the aggregate value (and category for leaves) to labels.
	Detailed bool
	// MaxDepth hides nodes deeper than this. Zero shows the whole tree.
	MaxDepth int
	// Scale fills leaves with their group colour when set.
	Scale *color.Scale
}

// ToDOT converts a hierarchy to Graphviz DOT format, one box per node and
// one edge from each parent to each child, laid out left to right.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(root *hierarchy.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.1;\n")
	buf.WriteString("\n")

	visible := func(n *hierarchy.Node) bool { return opts.MaxDepth == 0 || n.Depth <= opts.MaxDepth }

	nodes := root.Descendants()
	for _, n := range nodes {
		if !visible(n) {
			continue
		}
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), opts.Scale)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.Parent == nil || !visible(n) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", n.Parent.Key(), n.Key())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *hierarchy.Node, detailed bool) string {
	if !detailed {
		return n.Name()
	}
	parts := []string{n.Name(), "value: " + strconv.FormatFloat(n.Value, 'f', 2, 64)}
	if n.IsLeaf() && n.Data.Category != "" {
		parts = append(parts, "category: "+n.Data.Category)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *hierarchy.Node, label string, scale *color.Scale) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsLeaf() && scale != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", scale.Color(color.GroupKey(n))), "fontcolor=white")
	}
	if n.Parent == nil {
		attrs = append(attrs, "style=\"rounded,filled,bold\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
