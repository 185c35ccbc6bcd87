package sink

import (
	"html"
	"strings"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
)

// Tooltip opacity while a tile is hovered.
const TooltipOpacity = 0.9

// TooltipOffsetY is how far above the pointer the tooltip is placed.
const TooltipOffsetY = 80

// Tooltip is the state of the page tooltip. The script emitted by
// [RenderPage] and [WithTooltip] applies the same transitions in the browser.
type Tooltip struct {
	Opacity   float64
	HTML      string
	Left, Top float64
	DataValue string
}

// Visible reports whether the tooltip is showing.
func (t *Tooltip) Visible() bool { return t.Opacity > 0 }

// Hover shows the tooltip for leaf at page coordinates (pageX, pageY).
func (t *Tooltip) Hover(leaf *hierarchy.Node, pageX, pageY float64) {
	t.Opacity = TooltipOpacity
	t.HTML = TooltipHTML(leaf)
	t.Left = pageX
	t.Top = pageY - TooltipOffsetY
	t.DataValue = leaf.Data.DisplayValue()
}

// Leave hides the tooltip and moves it back to the top.
func (t *Tooltip) Leave() {
	t.Opacity = 0
	t.Top = 0
}

// TooltipHTML is the tooltip body for leaf, with each field HTML-escaped.
func TooltipHTML(leaf *hierarchy.Node) string {
	return html.EscapeString(leaf.Name()) +
		"<br/>Category: " + html.EscapeString(leaf.Data.DisplayCategory()) +
		"<br/>Value: " + html.EscapeString(leaf.Data.DisplayValue())
}

// TooltipText is the plain-text form of [TooltipHTML].
func TooltipText(leaf *hierarchy.Node) string {
	return strings.Join([]string{
		leaf.Name(),
		"Category: " + leaf.Data.DisplayCategory(),
		"Value: " + leaf.Data.DisplayValue(),
	}, "\n")
}

// tooltipJS wires .tile elements to the #tooltip element, if the document
// has one. Escaping matches html.EscapeString.
const tooltipJS = `
    (function () {
      var tip = document.getElementById('tooltip');
      if (!tip) return;
      var entities = {'&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&#34;', "'": '&#39;'};
      function esc(s) { return String(s).replace(/[&<>"']/g, function (c) { return entities[c]; }); }
      document.querySelectorAll('.tile').forEach(function (el) {
        el.addEventListener('mouseover', function (ev) {
          var value = el.getAttribute('data-value');
          tip.style.opacity = 0.9;
          tip.innerHTML = esc(el.getAttribute('data-name')) +
            '<br/>Category: ' + esc(el.getAttribute('data-category')) +
            '<br/>Value: ' + esc(value);
          tip.style.left = ev.pageX + 'px';
          tip.style.top = (ev.pageY - 80) + 'px';
          tip.setAttribute('data-value', value);
        });
        el.addEventListener('mouseleave', function () {
          tip.style.opacity = 0;
          tip.style.top = 0;
        });
      });
    })();`
