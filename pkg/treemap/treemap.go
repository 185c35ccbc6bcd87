// Package treemap assigns rectangles to a [hierarchy.Node] tree.
//
// The root covers the whole canvas. Each internal node's rectangle is split
// among its children in proportion to their values using the squarified
// strategy of Bruls, Huizing and van Wijk: children are packed into rows
// that keep tile aspect ratios close to the target ratio (the golden ratio
// by default). Children must already be ordered, typically by
// [hierarchy.Node.Sort].
//
//	root := hierarchy.New(doc)
//	err := treemap.Layout(root, treemap.Options{Width: 1200, Height: 600})
//	r := treemap.Of(root.Leaves()[0])
package treemap

import (
	"math"

	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
)

// Phi is the golden ratio, the default target aspect ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// Default canvas size.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 600.0
)

// Options controls the layout.
type Options struct {
	Width        float64
	Height       float64
	PaddingOuter float64 // Inset of children from their parent's edges
	Ratio        float64 // Target aspect ratio; values below 1 are treated as 1
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Ratio == 0 {
		o.Ratio = Phi
	}
	return o
}

// Validate checks the canvas and padding.
func (o Options) Validate() error {
	if err := errors.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	return errors.ValidatePadding(o.PaddingOuter, o.Width, o.Height)
}

// Layout sets X0, Y0, X1, Y1 on root and all its descendants. Values must
// already be summed.
func Layout(root *hierarchy.Node, opts Options) error {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}
	ratio := max(opts.Ratio, 1)

	root.X0, root.Y0, root.X1, root.Y1 = 0, 0, opts.Width, opts.Height
	root.EachBefore(func(n *hierarchy.Node) {
		if n.IsLeaf() {
			return
		}
		p := opts.PaddingOuter
		x0, y0, x1, y1 := n.X0+p, n.Y0+p, n.X1-p, n.Y1-p
		if x1 < x0 {
			x0 = (x0 + x1) / 2
			x1 = x0
		}
		if y1 < y0 {
			y0 = (y0 + y1) / 2
			y1 = y0
		}
		squarify(ratio, n, x0, y0, x1, y1)
	})
	return nil
}

// squarify packs parent's children into rows inside the given rectangle.
func squarify(ratio float64, parent *hierarchy.Node, x0, y0, x1, y1 float64) {
	nodes := parent.Children
	n := len(nodes)
	value := parent.Value

	for i0, i1 := 0, 0; i0 < n; i0 = i1 {
		dx, dy := x1-x0, y1-y0

		// Start the row at the next non-empty node.
		var sum float64
		for {
			sum = nodes[i1].Value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * ratio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := nodes[i1].Value
			sum += v
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
			beta = sum * sum * alpha
			r := math.Max(maxV/beta, beta/minV)
			if r > minRatio {
				sum -= v
				break
			}
			minRatio = r
		}

		row := nodes[i0:i1]
		if dx < dy {
			top, bottom := y0, y1
			if value != 0 {
				y0 += dy * sum / value
				bottom = y0
			}
			dice(row, sum, x0, top, x1, bottom)
		} else {
			left, right := x0, x1
			if value != 0 {
				x0 += dx * sum / value
				right = x0
			}
			slice(row, sum, left, y0, right, y1)
		}
		value -= sum
	}
}

// dice lays nodes out left to right across the rectangle.
func dice(nodes []*hierarchy.Node, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (x1 - x0) / total
	}
	for _, n := range nodes {
		n.Y0, n.Y1 = y0, y1
		n.X0 = x0
		x0 += n.Value * k
		n.X1 = x0
	}
}

// slice lays nodes out top to bottom down the rectangle.
func slice(nodes []*hierarchy.Node, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (y1 - y0) / total
	}
	for _, n := range nodes {
		n.X0, n.X1 = x0, x1
		n.Y0 = y0
		y0 += n.Value * k
		n.Y1 = y0
	}
}
