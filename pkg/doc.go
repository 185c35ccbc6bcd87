// Package pkg provides the core libraries for salesmap.
//
// # Overview
//
// Salesmap turns the top-selling video games dataset into a squarified
// treemap: one coloured tile per game, grouped by platform, with a legend
// and a hover tooltip. The pkg directory is organized into four areas:
//
//  1. [dataset] - Loading (HTTP fetch, local files, one-shot loader)
//  2. [hierarchy] and [treemap] - Weighted tree and tiling
//  3. [render] - Output (SVG, HTML page, legend, JSON, DOT, PNG/PDF)
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The data flow through salesmap:
//
//	video-game-sales-data.json
//	         ↓
//	    [dataset] package (fetch once, decode)
//	         ↓
//	    [hierarchy] package (sum values, sort siblings)
//	         ↓
//	    [treemap] package (squarified rectangles)
//	         ↓
//	    [render] packages (colour scale, legend, sinks)
//	         ↓
//	    SVG/HTML/JSON/PNG/PDF output
//
// # Quick Start
//
//	doc, _ := dataset.ImportJSON("sales.json")
//	root := hierarchy.New(doc)
//	_ = treemap.Layout(root, treemap.Options{})
//
//	scale := color.ForTree(root)
//	svg := sink.RenderSVG(root, sink.WithScale(scale))
//	legendSVG := sink.RenderLegend(legend.Entries(scale, root, nil))
//
// # Infrastructure
//
// [cache] - File, Redis and null backends for fetched datasets and rendered
// artifacts.
//
// [errors] - Coded errors shared by the CLI and the HTTP server.
//
// [observability] - Hooks around loading, layout, rendering and cache use.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/treemap/...    # Specific package
//	go test -run Example ./...   # Examples only
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/dataset
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/hierarchy
// [treemap]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/treemap
// [render]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/salesmap/pkg/observability
package pkg
