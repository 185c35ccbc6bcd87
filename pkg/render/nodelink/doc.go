// Package nodelink renders the sales hierarchy as a node-link tree diagram.
//
// # Overview
//
// This package draws the hierarchy with Graphviz: root, platforms and games
// appear as boxes, each parent linked to its children. It complements the
// treemap when the structure matters more than the proportions.
//
// # Usage
//
// Convert a hierarchy to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{MaxDepth: 1})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the value, and the category for leaves
//   - MaxDepth: hide nodes below a depth (1 shows only the platforms)
//   - Scale: fill leaves with their treemap group colour
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes, since the tree is shallow and wide.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
