package sink

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/treemap"
)

const sampleDoc = `{"name": "Video Game Sales Data Top 100", "children": [
  {"name": "Wii", "children": [
    {"name": "Wii Sports", "category": "Wii", "value": "82.53"},
    {"name": "Mario Kart Wii", "category": "Wii", "value": "35.52"}
  ]},
  {"name": "NES", "children": [
    {"name": "Super Mario Bros.", "category": "NES", "value": "40.24"},
    {"name": "Tom & Jerry <Deluxe>", "category": "NES", "value": "1"}
  ]},
  {"name": "Misc", "children": [
    {"name": "Mystery"}
  ]}
]}`

func sampleTree(t *testing.T) *hierarchy.Node {
	t.Helper()
	doc, err := dataset.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	root := hierarchy.New(doc)
	if err := treemap.Layout(root, treemap.Options{Width: 1200, Height: 600}); err != nil {
		t.Fatal(err)
	}
	return root
}

func parse(t *testing.T, data []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return doc
}
