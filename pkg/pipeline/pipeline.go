// Package pipeline runs the salesmap load → layout → render flow.
//
// CLI commands and the HTTP server share this package so they apply the
// same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Fetch the dataset (or read a local file) through a one-shot [dataset.Loader]
//  2. Layout: Build the weighted hierarchy and tile it with the squarified treemap
//  3. Render: Generate the requested formats (SVG, HTML, JSON, legend, DOT, PNG, PDF)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Formats: []string{"svg", "html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Rendered artifacts are cached by the hash of the dataset body plus the
// options that affect their bytes, so a changed dataset never serves stale
// output.
//
// [dataset.Loader]: github.com/matzehuels/salesmap/pkg/dataset.Loader
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/salesmap/pkg/cache"
	"github.com/matzehuels/salesmap/pkg/dataset"
	"github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/render/color"
	"github.com/matzehuels/salesmap/pkg/render/legend"
	"github.com/matzehuels/salesmap/pkg/treemap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = treemap.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = treemap.DefaultHeight

	// DefaultPNGScale is the PNG resolution multiplier.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG    = "svg"
	FormatHTML   = "html"
	FormatJSON   = "json"
	FormatLegend = "legend"
	FormatDOT    = "dot"
	FormatPNG    = "png"
	FormatPDF    = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatHTML:   true,
	FormatJSON:   true,
	FormatLegend: true,
	FormatDOT:    true,
	FormatPNG:    true,
	FormatPDF:    true,
}

// FormatNames lists the formats in display order.
var FormatNames = []string{FormatSVG, FormatHTML, FormatJSON, FormatLegend, FormatDOT, FormatPNG, FormatPDF}

// Extensions maps a format to its file extension.
var Extensions = map[string]string{
	FormatSVG:    ".svg",
	FormatHTML:   ".html",
	FormatJSON:   ".json",
	FormatLegend: ".legend.svg",
	FormatDOT:    ".dot.svg",
	FormatPNG:    ".png",
	FormatPDF:    ".pdf",
}

// ContentTypes maps a format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:    "image/svg+xml",
	FormatHTML:   "text/html; charset=utf-8",
	FormatJSON:   "application/json",
	FormatLegend: "image/svg+xml",
	FormatDOT:    "image/svg+xml",
	FormatPNG:    "image/png",
	FormatPDF:    "application/pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	URL     string `json:"url,omitempty"`
	Input   string `json:"input,omitempty"` // Local file; takes precedence over URL
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	PaddingOuter float64 `json:"padding_outer,omitempty"`

	// Render options
	Formats []string      `json:"formats,omitempty"`
	Labels  legend.Labels `json:"labels,omitempty"`
	Tooltip bool          `json:"tooltip,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded document and its provenance.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the raw dataset body.
	DatasetHash string

	// Root is the laid-out hierarchy.
	Root *hierarchy.Node

	// Scale colours leaves by group.
	Scale *color.Scale

	// Legend has one entry per colour group.
	Legend []legend.Entry

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LeafCount  int
	GroupCount int
	Total      float64
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DatasetHit bool // Whether the dataset body came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming blanks and dropping
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Input == "" && o.URL == "" {
		o.URL = dataset.DefaultURL
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults, then checks every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if o.Input == "" {
		if err := errors.ValidateDatasetURL(o.URL); err != nil {
			return err
		}
	}
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// LayoutOptions returns the treemap options for this run.
func (o *Options) LayoutOptions() treemap.Options {
	return treemap.Options{Width: o.Width, Height: o.Height, PaddingOuter: o.PaddingOuter}
}

// Source returns where the dataset comes from. A local Input wins over URL.
func (o *Options) Source(f *dataset.Fetcher) dataset.Source {
	if o.Input != "" {
		return dataset.FileSource(o.Input)
	}
	return dataset.URLSource{URL: o.URL, Fetcher: f, Refresh: o.Refresh}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Width:        o.Width,
		Height:       o.Height,
		PaddingOuter: o.PaddingOuter,
		Tooltip:      o.Tooltip,
		LabelsHash:   o.Labels.Hash(),
	}
}
