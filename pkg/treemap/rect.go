package treemap

import "github.com/matzehuels/salesmap/pkg/hierarchy"

// Epsilon absorbs floating-point drift in geometric comparisons.
const Epsilon = 1e-6

// Rect is an axis-aligned rectangle from (X0, Y0) to (X1, Y1).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Of returns the rectangle assigned to n.
func Of(n *hierarchy.Node) Rect {
	return Rect{n.X0, n.Y0, n.X1, n.Y1}
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// Contains reports whether o lies inside r, edges included.
func (r Rect) Contains(o Rect) bool {
	return o.X0 >= r.X0-Epsilon && o.Y0 >= r.Y0-Epsilon &&
		o.X1 <= r.X1+Epsilon && o.Y1 <= r.Y1+Epsilon
}

// Overlaps reports whether r and o share interior area. Touching edges do
// not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1-Epsilon && o.X0 < r.X1-Epsilon &&
		r.Y0 < o.Y1-Epsilon && o.Y0 < r.Y1-Epsilon
}
