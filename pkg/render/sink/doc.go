// Package sink renders a laid-out sales treemap to its output formats.
//
// # SVG Output
//
// [RenderSVG] draws one filled tile per leaf and one outline group per node:
//
//	<rect class="tile" data-name="Wii Sports" data-category="Wii"
//	      data-value="82.53" x=".." y=".." width=".." height=".."
//	      fill="#1f77b4" stroke="white"/>
//	<g transform="translate(x0,y0)"><rect .. fill="none"/><text class="game" dx="4" dy="14">Wii Sports</text></g>
//
// Tiles are coloured by their parent group through a [color.Scale]. Labels
// are drawn only for nodes at depth 2 or deeper; group and root outlines are
// unlabelled.
//
//	svg := sink.RenderSVG(root, sink.WithScale(scale), sink.WithTooltip())
//
// # Tooltip
//
// [Tooltip] models the hover box: [Tooltip.Hover] shows it at 0.9 opacity
// 80px above the pointer, [Tooltip.Leave] hides it. [RenderPage] and
// [WithTooltip] emit a small script that applies the same transitions to an
// element with id "tooltip".
//
// # Legend and Page
//
// [RenderLegend] draws a 200x300 legend from [legend.Entry] values.
// [RenderPage] combines title, description, treemap, tooltip and legend
// into one HTML document.
//
// # JSON, PDF and PNG Output
//
// [RenderJSON] exports every node's key, value and rectangle. [RenderPDF]
// and [RenderPNG] convert the SVG through [render.ToPDF] and [render.ToPNG],
// which require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [color.Scale]: github.com/matzehuels/salesmap/pkg/render/color.Scale
// [legend.Entry]: github.com/matzehuels/salesmap/pkg/render/legend.Entry
// [render.ToPDF]: github.com/matzehuels/salesmap/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/salesmap/pkg/render.ToPNG
package sink
