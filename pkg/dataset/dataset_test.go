package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/salesmap/pkg/errors"
)

const sample = `{
  "name": "Video Game Sales Data Top 100",
  "children": [
    {"name": "Wii", "children": [
      {"name": "Wii Sports", "category": "Wii", "value": "82.53"},
      {"name": "Mario Kart Wii", "category": "Wii", "value": "35.52"}
    ]},
    {"name": "NES", "children": [
      {"name": "Super Mario Bros.", "category": "NES", "value": 40.24}
    ]}
  ]
}`

func TestParse(t *testing.T) {
	root, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if root.Name != "Video Game Sales Data Top 100" {
		t.Errorf("root name = %q", root.Name)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	if got := root.LeafCount(); got != 3 {
		t.Errorf("LeafCount() = %d, want 3", got)
	}

	sports := root.Children[0].Children[0]
	if sports.Number() != 82.53 {
		t.Errorf("Number() = %v, want 82.53", sports.Number())
	}
	if sports.DisplayValue() != "82.53" {
		t.Errorf("DisplayValue() = %q, want 82.53", sports.DisplayValue())
	}
	if mario := root.Children[1].Children[0]; mario.Number() != 40.24 {
		t.Errorf("numeric value = %v, want 40.24", mario.Number())
	}
}

func TestParseTolerant(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantNum  float64
		wantDisp string
		wantCat  string
	}{
		{"missing value", `{"name":"x"}`, 0, "0", "0"},
		{"null value", `{"name":"x","value":null}`, 0, "0", "0"},
		{"non-numeric string", `{"name":"x","value":"n/a","category":"PC"}`, 0, "n/a", "PC"},
		{"boolean", `{"name":"x","value":true}`, 0, "true", "0"},
		{"padded string", `{"name":"x","value":" 7 "}`, 7, " 7 ", "0"},
		{"NaN string", `{"name":"x","value":"NaN"}`, 0, "NaN", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !n.IsLeaf() {
				t.Error("IsLeaf() = false, want true")
			}
			if n.Number() != tt.wantNum {
				t.Errorf("Number() = %v, want %v", n.Number(), tt.wantNum)
			}
			if n.DisplayValue() != tt.wantDisp {
				t.Errorf("DisplayValue() = %q, want %q", n.DisplayValue(), tt.wantDisp)
			}
			if n.DisplayCategory() != tt.wantCat {
				t.Errorf("DisplayCategory() = %q, want %q", n.DisplayCategory(), tt.wantCat)
			}
		})
	}
}

func TestParseMalformedNodes(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLeaves int
		check      func(t *testing.T, root *Node)
	}{
		{
			name:       "null child dropped",
			input:      `{"name":"root","children":[{"name":"A","children":[null,{"name":"G1","category":"X","value":30}]}]}`,
			wantLeaves: 1,
			check: func(t *testing.T, root *Node) {
				if got := len(root.Children[0].Children); got != 1 {
					t.Errorf("A children = %d, want 1", got)
				}
			},
		},
		{
			name:       "only null children",
			input:      `{"name":"root","children":[null,null]}`,
			wantLeaves: 1,
			check: func(t *testing.T, root *Node) {
				if !root.IsLeaf() {
					t.Error("root with only null children should be a leaf")
				}
			},
		},
		{
			name:       "children not an array",
			input:      `{"name":"root","children":[{"name":"A","children":"x"},{"name":"B","value":2}]}`,
			wantLeaves: 2,
			check: func(t *testing.T, root *Node) {
				if a := root.Children[0]; !a.IsLeaf() || a.Number() != 0 {
					t.Errorf("A = %+v, want zero-value leaf", a)
				}
			},
		},
		{
			name:       "wrong field types",
			input:      `{"name":"root","children":[{"name":5,"category":["PC"],"value":"3"},7]}`,
			wantLeaves: 2,
			check: func(t *testing.T, root *Node) {
				first := root.Children[0]
				if first.Name != "5" || first.Category != "" || first.Number() != 3 {
					t.Errorf("first = %+v", first)
				}
				if second := root.Children[1]; second.Name != "" || !second.IsLeaf() {
					t.Errorf("non-object child = %+v, want zero-value leaf", second)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got := root.LeafCount(); got != tt.wantLeaves {
				t.Errorf("LeafCount() = %d, want %d", got, tt.wantLeaves)
			}
			tt.check(t, root)
		})
	}
}

func TestLeafCountSkipsNil(t *testing.T) {
	root := &Node{Name: "root", Children: []*Node{
		nil,
		{Name: "A", Children: []*Node{nil, {Name: "G1", Value: NewValue(1)}}},
	}}
	if got := root.LeafCount(); got != 1 {
		t.Errorf("LeafCount() = %d, want 1", got)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "{", "[1,2]", `"root"`, "null", "42"} {
		_, err := Parse([]byte(input))
		if err == nil {
			t.Errorf("Parse(%q) expected error", input)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidDataset) {
			t.Errorf("Parse(%q) code = %s, want INVALID_DATASET", input, errors.GetCode(err))
		}
	}
}

func TestValueMarshalPreservesForm(t *testing.T) {
	root, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"value":"82.53"`) {
		t.Errorf("string value not preserved: %s", s)
	}
	if !strings.Contains(s, `"value":40.24`) {
		t.Errorf("numeric value not preserved: %s", s)
	}
}

func TestNewValue(t *testing.T) {
	v := NewValue(12.5)
	if v.Num != 12.5 || v.Raw != "12.5" {
		t.Errorf("NewValue(12.5) = %+v", v)
	}
}

func TestImportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if root.LeafCount() != 3 {
		t.Errorf("LeafCount() = %d, want 3", root.LeafCount())
	}

	_, err = ImportJSON(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file code = %s, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}
