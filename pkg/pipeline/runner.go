package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/salesmap/pkg/cache"
	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/observability"
	"github.com/matzehuels/salesmap/pkg/treemap"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// A Runner with a nil Loader builds a fresh [dataset.Loader] for every
// Execute call, so each call is its own session. Set Loader to share one
// load across calls (the server does this so the dataset is fetched once
// per process).
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Fetcher *dataset.Fetcher
	Loader  *dataset.Loader
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Fetcher: dataset.NewFetcher(c, dataset.WithKeyer(keyer)),
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	d, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Dataset = d
	result.DatasetHash = cache.Hash(d.Raw)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.DatasetHit = d.Cached

	opts.Logger.Info("loaded dataset",
		"source", d.Source,
		"cached", d.Cached,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	root, err := r.Layout(ctx, d.Root, opts)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(root.Descendants())
	result.Stats.LeafCount = len(root.Leaves())
	result.Stats.GroupCount = len(root.Children)
	result.Stats.Total = root.Value

	opts.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"leaves", result.Stats.LeafCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	scene := NewScene(root, opts.Labels)
	result.Scale = scene.Scale
	result.Legend = scene.Legend

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, result.DatasetHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", sortedFormats(artifacts),
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns the dataset through the runner's Loader, or through a new
// one-shot Loader for opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	loader := r.Loader
	if loader == nil {
		loader = dataset.NewLoader(opts.Source(r.fetcher()))
	}
	name := loader.Source().Name()

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	d, err := loader.Load(ctx)
	leaves := 0
	if d != nil {
		leaves = d.Root.LeafCount()
	}
	hooks.OnLoadComplete(ctx, name, leaves, time.Since(start), err)
	return d, err
}

// Layout builds the hierarchy for doc and assigns tile rectangles.
func (r *Runner) Layout(ctx context.Context, doc *dataset.Node, opts Options) (*hierarchy.Node, error) {
	root := hierarchy.New(doc)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(root.Descendants()))
	start := time.Now()
	err := treemap.Layout(root, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Artifacts are keyed by datasetHash and the options that affect them.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s Scene, datasetHash string, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, s, missing, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) fetcher() *dataset.Fetcher {
	if r.Fetcher == nil {
		r.Fetcher = dataset.NewFetcher(r.Cache, dataset.WithKeyer(r.Keyer))
	}
	return r.Fetcher
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
