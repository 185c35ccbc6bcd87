package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/salesmap/pkg/render/legend"
)

// Legend geometry.
const (
	LegendWidth   = 200
	LegendHeight  = 300
	legendSwatch  = 18
	legendBaseY   = 240
	legendStep    = 20
	legendOffsetX = -40
	legendTextGap = 24
	legendTextY   = 9
)

// RenderLegend draws one swatch and label per entry. Entries stack upward
// from the bottom of the legend, the first entry lowest.
func RenderLegend(entries []legend.Entry) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="legend" width="%d" height="%d">`+"\n",
		LegendWidth, LegendHeight)
	for i, e := range entries {
		fmt.Fprintf(&buf, `  <g class="legend-label" transform="translate(%d,%d)">`, legendOffsetX, legendBaseY-i*legendStep)
		fmt.Fprintf(&buf, `<rect x="%d" width="%d" height="%d" class="legend-item" fill="%s" style="fill: %s"/>`,
			LegendWidth-legendSwatch, legendSwatch, legendSwatch, escape(e.Color), escape(e.Color))
		fmt.Fprintf(&buf, `<text x="%d" y="%d" dy=".35em" style="text-anchor: end">%s</text>`,
			LegendWidth-legendTextGap, legendTextY, escape(e.Label))
		buf.WriteString("</g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
