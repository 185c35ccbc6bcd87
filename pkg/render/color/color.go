// Package color maps treemap groups to categorical colours.
package color

import (
	"sync"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
)

// Category10 is the ten-colour categorical palette used for groups.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Scale is an ordinal colour scale. Keys are assigned colours in the order
// they are first seen; after the palette is exhausted it wraps around, so
// the eleventh key shares the first key's colour. Safe for concurrent use.
type Scale struct {
	mu      sync.Mutex
	palette []string
	index   map[string]int
	domain  []string
}

// NewScale returns a scale over palette, or Category10 if palette is empty.
func NewScale(palette ...string) *Scale {
	if len(palette) == 0 {
		palette = Category10
	}
	return &Scale{palette: palette, index: make(map[string]int)}
}

// Color returns the colour for key, adding key to the domain if it is new.
func (s *Scale) Color(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		i = len(s.domain)
		s.index[key] = i
		s.domain = append(s.domain, key)
	}
	return s.palette[i%len(s.palette)]
}

// Domain returns the keys seen so far in first-seen order.
func (s *Scale) Domain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.domain...)
}

// Range returns the palette.
func (s *Scale) Range() []string {
	return append([]string(nil), s.palette...)
}

// GroupKey is the key a leaf is coloured by: its parent's key. A root with
// no parent is its own group.
func GroupKey(n *hierarchy.Node) string {
	if n.Parent == nil {
		return n.Key()
	}
	return n.Parent.Key()
}

// ForTree returns a scale primed with the group of every leaf of root, in
// leaf order.
func ForTree(root *hierarchy.Node) *Scale {
	s := NewScale()
	for _, l := range root.Leaves() {
		s.Color(GroupKey(l))
	}
	return s
}
