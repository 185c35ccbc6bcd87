package sink

import (
	"encoding/json"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render/color"
	"github.com/matzehuels/salesmap/pkg/render/legend"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	scale   *color.Scale
	entries []legend.Entry
}

// WithJSONScale colours leaves with s instead of a fresh scale.
func WithJSONScale(s *color.Scale) JSONOption { return func(r *jsonRenderer) { r.scale = s } }

// WithJSONLegend includes legend entries in the output.
func WithJSONLegend(entries []legend.Entry) JSONOption {
	return func(r *jsonRenderer) { r.entries = entries }
}

type jsonOutput struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Total  float64        `json:"total"`
	Nodes  []jsonNode     `json:"nodes"`
	Legend []legend.Entry `json:"legend,omitempty"`
}

type jsonNode struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Depth    int     `json:"depth"`
	Value    float64 `json:"value"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Leaf     bool    `json:"leaf,omitempty"`
	Group    string  `json:"group,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// RenderJSON exports the laid-out tree as a pretty-printed JSON document.
// Nodes are listed breadth-first; leaves carry their group key and colour.
func RenderJSON(root *hierarchy.Node, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale == nil {
		r.scale = color.ForTree(root)
	}

	out := jsonOutput{
		Width:  root.X1 - root.X0,
		Height: root.Y1 - root.Y0,
		Total:  root.Value,
		Legend: r.entries,
	}
	for _, n := range root.Descendants() {
		jn := jsonNode{
			Key:    n.Key(),
			Name:   n.Name(),
			Depth:  n.Depth,
			Value:  n.Value,
			X:      n.X0,
			Y:      n.Y0,
			Width:  n.X1 - n.X0,
			Height: n.Y1 - n.Y0,
		}
		if n.IsLeaf() {
			jn.Leaf = true
			jn.Category = n.Data.Category
			jn.Group = color.GroupKey(n)
			jn.Color = r.scale.Color(jn.Group)
		}
		out.Nodes = append(out.Nodes, jn)
	}

	return json.MarshalIndent(out, "", "  ")
}
