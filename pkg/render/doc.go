// Package render holds the output side of salesmap.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg). Both the treemap sink and the node-link
// renderer use them.
//
//	svg := sink.RenderSVG(root)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Subpackages
//
//   - [color]: categorical colour scale keyed by group
//   - [legend]: legend labels and entries
//   - [sink]: SVG, HTML, JSON, PDF and PNG output for the treemap
//   - [nodelink]: the hierarchy as a Graphviz tree diagram
//
// [color]: github.com/matzehuels/salesmap/pkg/render/color
// [legend]: github.com/matzehuels/salesmap/pkg/render/legend
// [sink]: github.com/matzehuels/salesmap/pkg/render/sink
// [nodelink]: github.com/matzehuels/salesmap/pkg/render/nodelink
package render
