package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
)

func ExampleNew() {
	doc, _ := dataset.Parse([]byte(`{"name": "Sales", "children": [
	  {"name": "NES", "children": [{"name": "Duck Hunt", "category": "NES", "value": "28.31"}]},
	  {"name": "Wii", "children": [
	    {"name": "Wii Fit", "category": "Wii", "value": "22.7"},
	    {"name": "Wii Sports", "category": "Wii", "value": "82.53"}
	  ]}
	]}`))

	root := hierarchy.New(doc)
	for _, n := range root.Descendants() {
		fmt.Printf("%d %s %.2f\n", n.Depth, n.Key(), n.Value)
	}
	// Output:
	// 0 Sales 133.54
	// 1 Sales/Wii 105.23
	// 1 Sales/NES 28.31
	// 2 Sales/Wii/Wii Sports 82.53
	// 2 Sales/Wii/Wii Fit 22.70
	// 2 Sales/NES/Duck Hunt 28.31
}
