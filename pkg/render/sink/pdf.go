package sink

import (
	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render"
)

// RenderPDF renders the treemap as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(root *hierarchy.Node, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(root, opts...))
}
