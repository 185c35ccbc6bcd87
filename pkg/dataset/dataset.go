// Package dataset loads the nested sales document that feeds the treemap.
//
// The document is a tree of named nodes. Internal nodes carry "children";
// leaves carry a "category" and a "value":
//
//	{"name": "Video Game Sales Data Top 100", "children": [
//	  {"name": "Wii", "children": [
//	    {"name": "Wii Sports", "category": "Wii", "value": "82.53"}
//	  ]}
//	]}
//
// Values may be JSON numbers or numeric strings (the published dataset uses
// strings). Anything that does not parse as a number counts as zero.
//
// A [Loader] guards retrieval so a dataset is fetched at most once per
// session; see [Loader.Load].
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/salesmap/pkg/errors"
)

// Node is one entry of the raw document.
type Node struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Value    *Value  `json:"value,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether n has no children. Nodes lacking both children and
// value are zero-value leaves.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Number returns the node's own value, or 0 if absent or non-numeric.
func (n *Node) Number() float64 {
	if n.Value == nil {
		return 0
	}
	return n.Value.Num
}

// DisplayValue returns the value as written in the document, or "0".
func (n *Node) DisplayValue() string {
	if n.Value == nil || n.Value.Raw == "" {
		return "0"
	}
	return n.Value.Raw
}

// DisplayCategory returns the category, or "0" when it is absent.
func (n *Node) DisplayCategory() string {
	if n.Category == "" {
		return "0"
	}
	return n.Category
}

// Value is a sales figure that keeps its original spelling for display.
type Value struct {
	Raw    string  // Text as it appeared in the document
	Num    float64 // Parsed number; 0 when Raw is not numeric
	quoted bool
}

// NewValue returns a numeric Value.
func NewValue(v float64) *Value {
	return &Value{Raw: strconv.FormatFloat(v, 'f', -1, 64), Num: v}
}

// UnmarshalJSON accepts numbers and numeric strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Raw: s, Num: parseNumber(s), quoted: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*v = Value{Raw: string(data)}
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		f = 0
	}
	*v = Value{Raw: n.String(), Num: f}
	return nil
}

// MarshalJSON writes the value back in its original form.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.quoted {
		return json.Marshal(v.Raw)
	}
	if v.Raw == "" {
		return []byte("0"), nil
	}
	return []byte(v.Raw), nil
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ReadJSON decodes a document from r.
//
// The root must be a JSON object. Below the root, entries of the wrong shape
// are tolerated: null children are dropped, a name or category that is not
// a string or number is empty, a "children" that is not an array is ignored,
// and a child that is not an object becomes a zero-value leaf. Syntax errors
// and a non-object root are reported with code INVALID_DATASET.
func ReadJSON(r io.Reader) (*Node, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode dataset")
	}
	if !isObject(raw) {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "decode dataset: root is not an object")
	}
	var root Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode dataset")
	}
	return &root, nil
}

// UnmarshalJSON decodes one node field by field so a malformed field only
// affects that node.
func (n *Node) UnmarshalJSON(data []byte) error {
	*n = Node{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	n.Name = text(fields["name"])
	n.Category = text(fields["category"])
	if raw, ok := fields["value"]; ok && !isNull(raw) {
		n.Value = new(Value)
		if err := n.Value.UnmarshalJSON(raw); err != nil {
			n.Value = nil
		}
	}
	var children []json.RawMessage
	if err := json.Unmarshal(fields["children"], &children); err != nil {
		return nil
	}
	for _, raw := range children {
		if isNull(raw) {
			continue
		}
		c := new(Node)
		if err := c.UnmarshalJSON(raw); err != nil {
			return err
		}
		n.Children = append(n.Children, c)
	}
	return nil
}

// text returns a string field, or the literal of a number, or "".
func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// Parse decodes a document held in memory.
func Parse(data []byte) (*Node, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a document from a file.
func ImportJSON(path string) (*Node, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// LeafCount counts the leaves below n (n itself if it is a leaf).
func (n *Node) LeafCount() int {
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		if c != nil {
			total += c.LeafCount()
		}
	}
	return max(total, 1)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
