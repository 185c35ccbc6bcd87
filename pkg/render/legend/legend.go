// Package legend pairs each colour group with a display label.
//
// Labels are looked up by group key first, then by group name, so a label
// file can stay short:
//
//	[labels]
//	Wii = "Nintendo Wii"
//	"Video Game Sales Data Top 100/PS4" = "PlayStation 4"
//
// Groups without a label are shown under their own name.
package legend

import (
	"bytes"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/salesmap/pkg/cache"
	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render/color"
)

// Labels maps a group key or group name to its legend label.
type Labels map[string]string

// Lookup returns the label for the group n, falling back to its name.
func (l Labels) Lookup(n *hierarchy.Node) string {
	if s, ok := l[n.Key()]; ok {
		return s
	}
	if s, ok := l[n.Name()]; ok {
		return s
	}
	return n.Name()
}

// Hash identifies the label set for cache keys. Empty sets hash to "".
func (l Labels) Hash() string {
	if len(l) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(l)) {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(l[k])
		b.WriteByte(0)
	}
	return cache.Hash([]byte(b.String()))
}

type labelsFile struct {
	Labels Labels `toml:"labels"`
}

// ParseLabels decodes a TOML document with a [labels] table.
func ParseLabels(data []byte) (Labels, error) {
	var f labelsFile
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse legend labels")
	}
	if f.Labels == nil {
		f.Labels = Labels{}
	}
	return f.Labels, nil
}

// LoadLabels reads a TOML label file.
func LoadLabels(path string) (Labels, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	return ParseLabels(data)
}

// Entry is one legend row.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Entries returns one entry per key in the scale's domain, in domain order.
// Keys that do not resolve to a node under root are labelled with the key.
func Entries(scale *color.Scale, root *hierarchy.Node, labels Labels) []Entry {
	domain := scale.Domain()
	out := make([]Entry, 0, len(domain))
	for _, key := range domain {
		label := key
		if n := root.Find(key); n != nil {
			label = labels.Lookup(n)
		} else if s, ok := labels[key]; ok {
			label = s
		}
		out = append(out, Entry{Key: key, Label: label, Color: scale.Color(key)})
	}
	return out
}
