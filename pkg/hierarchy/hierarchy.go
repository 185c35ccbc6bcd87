// Package hierarchy turns a sales document into a weighted, ordered tree.
//
// [New] wraps every document node, sums leaf values up to the root, and
// orders siblings so the layout places the tallest and then largest
// subtrees first:
//
//	root := hierarchy.New(doc)
//	root.Value               // total of all leaf values
//	root.Children[0].Key()   // "Video Game Sales Data Top 100/Wii"
//
// Nodes also carry the rectangle assigned by the treemap package.
package hierarchy

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/salesmap/pkg/dataset"
)

// KeySep separates path segments in [Node.Key].
const KeySep = "/"

// Node is a document node with its aggregate value, tree position and
// layout rectangle.
type Node struct {
	Data     *dataset.Node
	Value    float64
	Depth    int // Distance from the root; the root is 0
	Height   int // Longest distance to a leaf; leaves are 0
	Parent   *Node
	Children []*Node

	X0, Y0, X1, Y1 float64

	key string
}

// New builds the tree, sums it and sorts it.
func New(doc *dataset.Node) *Node {
	root := Build(doc)
	root.Sum()
	root.Sort()
	return root
}

// Build wraps doc and its descendants without summing or sorting.
func Build(doc *dataset.Node) *Node {
	root := build(doc, nil, escape(doc.Name))
	root.computeHeight()
	return root
}

func build(doc *dataset.Node, parent *Node, key string) *Node {
	n := &Node{Data: doc, Parent: parent, key: key}
	if parent != nil {
		n.Depth = parent.Depth + 1
	}
	seen := make(map[string]int, len(doc.Children))
	for _, c := range doc.Children {
		if c == nil {
			continue
		}
		seg := escape(c.Name)
		if k := seen[c.Name]; k > 0 {
			seg += "#" + strconv.Itoa(k)
		}
		seen[c.Name]++
		n.Children = append(n.Children, build(c, n, key+KeySep+seg))
	}
	return n
}

// segmentEscaper percent-encodes the characters that carry meaning in a key,
// so no escaped name can equal another name or a "#n" repeat.
var segmentEscaper = strings.NewReplacer("%", "%25", KeySep, "%2F", "#", "%23")

func escape(name string) string {
	return segmentEscaper.Replace(name)
}

func (n *Node) computeHeight() int {
	h := 0
	for _, c := range n.Children {
		h = max(h, c.computeHeight()+1)
	}
	n.Height = h
	return h
}

// Sum sets every node's Value: a leaf's own value (0 if absent), or the sum
// of its descendants' leaf values. It returns n.
func (n *Node) Sum() *Node {
	n.EachAfter(func(m *Node) {
		if m.IsLeaf() {
			m.Value = m.Data.Number()
			return
		}
		total := 0.0
		for _, c := range m.Children {
			total += c.Value
		}
		m.Value = total
	})
	return n
}

// Sort orders every node's children by height descending, then value
// descending. Equal siblings keep their document order. It returns n.
func (n *Node) Sort() *Node {
	n.Each(func(m *Node) {
		slices.SortStableFunc(m.Children, compare)
	})
	return n
}

func compare(a, b *Node) int {
	if c := cmp.Compare(b.Height, a.Height); c != 0 {
		return c
	}
	return cmp.Compare(b.Value, a.Value)
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Name returns the document name.
func (n *Node) Name() string { return n.Data.Name }

// Key identifies n by the path of names from the root. Within a name, "%",
// "/" and "#" are written as "%25", "%2F" and "%23"; the n-th repeat of a
// sibling name gets a "#n" suffix. Keys are unique within the tree and do
// not change when it is sorted.
func (n *Node) Key() string { return n.key }

// Each visits n and its descendants breadth-first.
func (n *Node) Each(fn func(*Node)) {
	queue := []*Node{n}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		fn(m)
		queue = append(queue, m.Children...)
	}
}

// EachBefore visits n and its descendants in pre-order.
func (n *Node) EachBefore(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.EachBefore(fn)
	}
}

// EachAfter visits n and its descendants in post-order.
func (n *Node) EachAfter(fn func(*Node)) {
	for _, c := range n.Children {
		c.EachAfter(fn)
	}
	fn(n)
}

// Descendants returns n and every node below it, breadth-first.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.Each(func(m *Node) { out = append(out, m) })
	return out
}

// Leaves returns the leaves below n in pre-order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.EachBefore(func(m *Node) {
		if m.IsLeaf() {
			out = append(out, m)
		}
	})
	return out
}

// Ancestors returns n, its parent, and so on up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for m := n; m != nil; m = m.Parent {
		out = append(out, m)
	}
	return out
}

// Find returns the first node, breadth-first, whose key equals key.
func (n *Node) Find(key string) *Node {
	var found *Node
	n.Each(func(m *Node) {
		if found == nil && m.key == key {
			found = m
		}
	})
	return found
}
