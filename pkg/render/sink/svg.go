package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render/color"
)

const tileCSS = `
    .tile { cursor: crosshair; }
    .tile:hover { opacity: 0.8; }
    text.game { font: 10px sans-serif; pointer-events: none; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale   *color.Scale
	tooltip bool
	title   string
	id      string
}

func WithScale(s *color.Scale) SVGOption { return func(r *svgRenderer) { r.scale = s } }
func WithTooltip() SVGOption             { return func(r *svgRenderer) { r.tooltip = true } }
func WithTitle(t string) SVGOption       { return func(r *svgRenderer) { r.title = t } }

// WithID sets the id attribute of the root svg element (default "treemap").
func WithID(id string) SVGOption { return func(r *svgRenderer) { r.id = id } }

// RenderSVG draws a laid-out tree. Every leaf becomes a filled tile coloured
// by its group; every node gets an outline group, labelled from depth 2 on.
func RenderSVG(root *hierarchy.Node, opts ...SVGOption) []byte {
	r := newSVGRenderer(root, opts...)
	w, h := root.X1, root.Y1

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="main" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		escape(r.id), num(w), num(h), num(w), num(h))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileCSS)

	for _, l := range root.Leaves() {
		renderTile(&buf, l, r.scale.Color(color.GroupKey(l)), r.tooltip)
	}
	for _, n := range root.Descendants() {
		renderCell(&buf, n)
	}

	if r.tooltip {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tooltipJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(root *hierarchy.Node, opts ...SVGOption) svgRenderer {
	r := svgRenderer{id: "treemap"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale == nil {
		r.scale = color.ForTree(root)
	}
	return r
}

func renderTile(buf *bytes.Buffer, n *hierarchy.Node, fill string, withTitle bool) {
	fmt.Fprintf(buf, `  <rect class="tile" data-name="%s" data-category="%s" data-value="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="white"`,
		escape(n.Name()), escape(n.Data.DisplayCategory()), escape(n.Data.DisplayValue()),
		num(n.X0), num(n.Y0), num(n.X1-n.X0), num(n.Y1-n.Y0), fill)
	if !withTitle {
		buf.WriteString("/>\n")
		return
	}
	fmt.Fprintf(buf, "><title>%s</title></rect>\n", escape(TooltipText(n)))
}

func renderCell(buf *bytes.Buffer, n *hierarchy.Node) {
	fmt.Fprintf(buf, `  <g transform="translate(%s,%s)"><rect width="%s" height="%s" fill="none"/>`,
		num(n.X0), num(n.Y0), num(n.X1-n.X0), num(n.Y1-n.Y0))
	if n.Depth >= 2 {
		fmt.Fprintf(buf, `<text class="game" dx="4" dy="14">%s</text>`, escape(n.Name()))
	}
	buf.WriteString("</g>\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a coordinate with at most three decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}
