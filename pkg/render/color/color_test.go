package color

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
)

func TestScaleFirstSeenOrder(t *testing.T) {
	s := NewScale()
	if got := s.Color("b"); got != Category10[0] {
		t.Errorf("Color(b) = %s, want %s", got, Category10[0])
	}
	if got := s.Color("a"); got != Category10[1] {
		t.Errorf("Color(a) = %s, want %s", got, Category10[1])
	}
	if got := s.Color("b"); got != Category10[0] {
		t.Errorf("repeat Color(b) = %s, want %s", got, Category10[0])
	}
	if got, want := s.Domain(), []string{"b", "a"}; !slices.Equal(got, want) {
		t.Errorf("Domain() = %v, want %v", got, want)
	}
	if !slices.Equal(s.Range(), Category10) {
		t.Error("Range() should be Category10")
	}
}

func TestScaleWraps(t *testing.T) {
	s := NewScale()
	seen := map[string]bool{}
	for i := range 10 {
		seen[s.Color(fmt.Sprintf("k%d", i))] = true
	}
	if len(seen) != 10 {
		t.Errorf("10 keys got %d distinct colours", len(seen))
	}
	if got := s.Color("k10"); got != s.Color("k0") {
		t.Errorf("11th key colour %s, want %s", got, s.Color("k0"))
	}
}

func TestCustomPalette(t *testing.T) {
	s := NewScale("red", "blue")
	got := []string{s.Color("x"), s.Color("y"), s.Color("z")}
	if want := []string{"red", "blue", "red"}; !slices.Equal(got, want) {
		t.Errorf("colours = %v, want %v", got, want)
	}
}

func TestGroupColours(t *testing.T) {
	leaf := func(name string) *dataset.Node {
		return &dataset.Node{Name: name, Value: dataset.NewValue(1)}
	}
	tests := []struct {
		name   string
		groups []*dataset.Node
	}{
		{
			name: "shared display name",
			groups: []*dataset.Node{
				{Name: "Wii", Children: []*dataset.Node{leaf("a"), leaf("b")}},
				{Name: "Wii", Children: []*dataset.Node{leaf("c")}},
				{Name: "NES", Children: []*dataset.Node{leaf("d"), leaf("e")}},
			},
		},
		{
			name: "name that looks like a repeat",
			groups: []*dataset.Node{
				{Name: "A", Children: []*dataset.Node{leaf("a")}},
				{Name: "A", Children: []*dataset.Node{leaf("b")}},
				{Name: "A#1", Children: []*dataset.Node{leaf("c")}},
			},
		},
		{
			name: "escaped and literal slash",
			groups: []*dataset.Node{
				{Name: "PS/2", Children: []*dataset.Node{leaf("a")}},
				{Name: "PS%2F2", Children: []*dataset.Node{leaf("b")}},
				{Name: "PS%252F2", Children: []*dataset.Node{leaf("c")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := hierarchy.New(&dataset.Node{Name: "root", Children: tt.groups})
			s := ForTree(root)

			byParent := map[*hierarchy.Node]string{}
			colours := map[string]bool{}
			for _, l := range root.Leaves() {
				c := s.Color(GroupKey(l))
				if prev, ok := byParent[l.Parent]; ok && prev != c {
					t.Errorf("%s colour %s differs from sibling colour %s", l.Name(), c, prev)
				}
				byParent[l.Parent] = c
				colours[c] = true
			}
			if len(colours) != len(tt.groups) {
				t.Errorf("%d groups got %d colours", len(tt.groups), len(colours))
			}
			if len(s.Domain()) != len(tt.groups) {
				t.Errorf("Domain() size = %d, want %d", len(s.Domain()), len(tt.groups))
			}
		})
	}
}

func TestGroupKeyRoot(t *testing.T) {
	root := hierarchy.New(&dataset.Node{Name: "solo"})
	if GroupKey(root) != "solo" {
		t.Errorf("GroupKey(root) = %q, want solo", GroupKey(root))
	}
}
