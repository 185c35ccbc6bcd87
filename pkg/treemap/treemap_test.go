package treemap

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
)

func leaf(name string, v float64) *dataset.Node {
	return &dataset.Node{Name: name, Category: "X", Value: dataset.NewValue(v)}
}

func group(name string, children ...*dataset.Node) *dataset.Node {
	return &dataset.Node{Name: name, Children: children}
}

// randomDoc builds a two-level document with reproducible values.
func randomDoc(seed uint64, groups, perGroup int) *dataset.Node {
	r := rand.New(rand.NewPCG(seed, seed))
	root := group("root")
	for g := range groups {
		grp := group(fmt.Sprintf("g%d", g))
		for i := range perGroup {
			grp.Children = append(grp.Children, leaf(fmt.Sprintf("g%d-%d", g, i), 0.5+r.Float64()*80))
		}
		root.Children = append(root.Children, grp)
	}
	return root
}

func layout(t *testing.T, doc *dataset.Node, opts Options) *hierarchy.Node {
	t.Helper()
	root := hierarchy.New(doc)
	if err := Layout(root, opts); err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	return root
}

func TestEndToEndTwoLeaves(t *testing.T) {
	doc := group("root", group("A", leaf("G1", 30), leaf("G2", 10)))
	root := layout(t, doc, Options{Width: 1200, Height: 600})

	a := root.Find("root/A")
	g1 := root.Find("root/A/G1")
	g2 := root.Find("root/A/G2")

	if got, want := Of(a), (Rect{0, 0, 1200, 600}); got != want {
		t.Errorf("A = %+v, want %+v", got, want)
	}
	if Of(g1).Area() != 3*Of(g2).Area() {
		t.Errorf("area(G1) = %v, want 3 * area(G2) = %v", Of(g1).Area(), 3*Of(g2).Area())
	}
	for _, g := range []*hierarchy.Node{g1, g2} {
		if !Of(a).Contains(Of(g)) {
			t.Errorf("%s %+v not inside A", g.Name(), Of(g))
		}
	}
	if Of(g1).Overlaps(Of(g2)) {
		t.Error("G1 and G2 overlap")
	}
}

func TestLayoutInvariants(t *testing.T) {
	tests := []struct {
		name string
		doc  *dataset.Node
		opts Options
	}{
		{"default canvas", randomDoc(1, 6, 12), Options{}},
		{"tall canvas", randomDoc(2, 3, 20), Options{Width: 300, Height: 900}},
		{"padding", randomDoc(3, 5, 8), Options{Width: 1200, Height: 600, PaddingOuter: 4}},
		{"square ratio", randomDoc(4, 4, 10), Options{Ratio: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := layout(t, tt.doc, tt.opts)
			opts := tt.opts.WithDefaults()

			if got, want := Of(root), (Rect{0, 0, opts.Width, opts.Height}); got != want {
				t.Errorf("root = %+v, want %+v", got, want)
			}

			root.Each(func(n *hierarchy.Node) {
				outer := Of(n)
				for i, c := range n.Children {
					if !outer.Contains(Of(c)) {
						t.Errorf("%s %+v escapes parent %+v", c.Key(), Of(c), outer)
					}
					for _, d := range n.Children[i+1:] {
						if Of(c).Overlaps(Of(d)) {
							t.Errorf("%s overlaps %s", c.Key(), d.Key())
						}
					}
				}
			})

			// Within a group, area per unit value is constant.
			for _, g := range root.Children {
				density := Of(g.Children[0]).Area() / g.Children[0].Value
				for _, l := range g.Children[1:] {
					if d := Of(l).Area() / l.Value; math.Abs(d-density) > 1e-6*density {
						t.Errorf("%s density %v, want %v", l.Key(), d, density)
					}
				}
			}
		})
	}
}

func TestLayoutCoversParent(t *testing.T) {
	root := layout(t, randomDoc(5, 4, 9), Options{})
	root.Each(func(n *hierarchy.Node) {
		if n.IsLeaf() {
			return
		}
		var sum float64
		for _, c := range n.Children {
			sum += Of(c).Area()
		}
		if want := Of(n).Area(); math.Abs(sum-want) > 1e-6*want {
			t.Errorf("%s children cover %v of %v", n.Key(), sum, want)
		}
	})
}

func TestLayoutZeroValues(t *testing.T) {
	doc := group("root",
		group("A", leaf("a", 5), leaf("zero", 0), &dataset.Node{Name: "broken"}),
		group("empty", leaf("z", 0)),
	)
	root := layout(t, doc, Options{})

	for _, key := range []string{"root/A/zero", "root/A/broken", "root/empty", "root/empty/z"} {
		n := root.Find(key)
		if n == nil {
			t.Fatalf("Find(%q) = nil", key)
		}
		if a := Of(n).Area(); a != 0 {
			t.Errorf("%s area = %v, want 0", key, a)
		}
	}
	if a := Of(root.Find("root/A/a")).Area(); a != 1200*600 {
		t.Errorf("sole non-zero leaf area = %v, want full canvas", a)
	}
	root.Each(func(n *hierarchy.Node) {
		for _, v := range []float64{n.X0, n.Y0, n.X1, n.Y1} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s has non-finite coordinate", n.Key())
			}
		}
	})
}

func TestLayoutSquarified(t *testing.T) {
	// Equal values on a square canvas tile into a grid of squares.
	doc := group("root", leaf("a", 1), leaf("b", 1), leaf("c", 1), leaf("d", 1))
	root := layout(t, doc, Options{Width: 400, Height: 400, Ratio: 1})

	for _, l := range root.Leaves() {
		r := Of(l)
		if math.Abs(r.Width()-200) > Epsilon || math.Abs(r.Height()-200) > Epsilon {
			t.Errorf("%s = %vx%v, want 200x200", l.Name(), r.Width(), r.Height())
		}
	}
}

func TestLayoutInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative width", Options{Width: -1, Height: 600}},
		{"huge height", Options{Width: 100, Height: 1e9}},
		{"negative padding", Options{PaddingOuter: -1}},
		{"padding fills canvas", Options{Width: 100, Height: 100, PaddingOuter: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := hierarchy.New(group("root", leaf("a", 1)))
			err := Layout(root, tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidSize) {
				t.Errorf("Layout() error = %v, want INVALID_SIZE", err)
			}
		})
	}
}

func TestRect(t *testing.T) {
	r := Rect{0, 0, 10, 20}
	if r.Width() != 10 || r.Height() != 20 || r.Area() != 200 {
		t.Errorf("Rect dims = %v %v %v", r.Width(), r.Height(), r.Area())
	}
	tests := []struct {
		name     string
		o        Rect
		contains bool
		overlaps bool
	}{
		{"inside", Rect{1, 1, 5, 5}, true, true},
		{"same", r, true, true},
		{"touching edge", Rect{10, 0, 20, 20}, false, false},
		{"partial", Rect{5, 5, 15, 15}, false, true},
		{"disjoint", Rect{30, 30, 40, 40}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.o); got != tt.contains {
				t.Errorf("Contains() = %v, want %v", got, tt.contains)
			}
			if got := r.Overlaps(tt.o); got != tt.overlaps {
				t.Errorf("Overlaps() = %v, want %v", got, tt.overlaps)
			}
		})
	}
}
