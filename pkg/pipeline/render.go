package pipeline

import (
	"context"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render/color"
	"github.com/matzehuels/salesmap/pkg/render/legend"
	"github.com/matzehuels/salesmap/pkg/render/nodelink"
	"github.com/matzehuels/salesmap/pkg/render/sink"
)

// Scene is everything a renderer needs: the laid-out tree, its colour
// scale and the legend derived from both.
type Scene struct {
	Root   *hierarchy.Node
	Scale  *color.Scale
	Legend []legend.Entry
}

// NewScene derives the colour scale and legend for a laid-out tree.
func NewScene(root *hierarchy.Node, labels legend.Labels) Scene {
	scale := color.ForTree(root)
	return Scene{Root: root, Scale: scale, Legend: legend.Entries(scale, root, labels)}
}

// RenderFormat produces one artifact.
func RenderFormat(s Scene, format string, opts Options) ([]byte, error) {
	svgOpts := []sink.SVGOption{sink.WithScale(s.Scale)}
	if opts.Tooltip {
		svgOpts = append(svgOpts, sink.WithTooltip())
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = sink.RenderSVG(s.Root, svgOpts...)
	case FormatHTML:
		data, err = sink.RenderPage(s.Root, s.Legend, sink.WithPageSVGOptions(sink.WithScale(s.Scale)))
	case FormatJSON:
		data, err = sink.RenderJSON(s.Root, sink.WithJSONScale(s.Scale), sink.WithJSONLegend(s.Legend))
	case FormatLegend:
		data = sink.RenderLegend(s.Legend)
	case FormatDOT:
		data, err = nodelink.RenderSVG(nodelink.ToDOT(s.Root, nodelink.Options{Scale: s.Scale}))
	case FormatPNG:
		data, err = sink.RenderPNG(s.Root, sink.WithPNGSVGOptions(svgOpts...), sink.WithPNGScale(DefaultPNGScale))
	case FormatPDF:
		data, err = sink.RenderPDF(s.Root, svgOpts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}

// Render produces every requested format concurrently.
func Render(ctx context.Context, s Scene, formats []string, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := RenderFormat(s, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// sortedFormats returns the keys of artifacts in a stable order.
func sortedFormats(artifacts map[string][]byte) []string {
	return slices.Sorted(maps.Keys(artifacts))
}
