package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/salesmap/pkg/pipeline"
)

// defaultOutputBase names output files when neither -o nor --input is given.
const defaultOutputBase = "video-game-sales"

// renderCommand creates the render command for generating treemap output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		labelsFile string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sales treemap",
		Long: `Render the video game sales treemap.

The dataset is fetched from --url (default: the public freeCodeCamp dataset)
or read from a local --input file, grouped by platform, tiled with a
squarified treemap and written in the requested formats:

  svg     treemap tiles with group labels
  html    page with title, treemap, hover tooltip and legend
  json    layout export (rectangles, values, colours)
  legend  platform colour legend
  dot     node-link view of the hierarchy (Graphviz)
  png/pdf converted from the SVG (requires rsvg-convert)

Fetched datasets and rendered outputs are cached locally.`,
		Example: `  salesmap render
  salesmap render -f svg,html,legend -o out/sales
  salesmap render --input sales.json --labels labels.toml --tooltip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := applyConfig(cmd, c.Config, &opts, labelsFile); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Source flags
	cmd.Flags().StringVar(&opts.URL, "url", "", "dataset URL (default from config)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "read the dataset from a local JSON file")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "refetch the dataset even if cached")

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), html, json, legend, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	cmd.Flags().Float64Var(&opts.PaddingOuter, "padding", 0, "inset of children from their group's edges")

	// Render flags
	cmd.Flags().StringVar(&labelsFile, "labels", "", "TOML file mapping platforms to legend labels")
	cmd.Flags().BoolVar(&opts.Tooltip, "tooltip", false, "embed the hover tooltip in standalone SVG output")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering treemap...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printSummary(result.Stats, result.CacheInfo)

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	}); err != nil {
		return err
	}
	if !slices.Contains(opts.Formats, pipeline.FormatHTML) {
		printNextStep("Interactive page with tooltip", "salesmap render -f html")
	}
	return nil
}

// artifactWriteParams groups the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each format to disk and prints the paths.
func writeArtifacts(p artifactWriteParams) error {
	paths := outputPaths(p.formats, p.input, p.output)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printArtifact(format, path)
	}
	return nil
}

// outputPaths derives one file path per format. A single format with an
// explicit output uses it verbatim; otherwise the base path gets the
// format's extension. A path that would overwrite input gets ".layout"
// before its extension.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + pipeline.Extensions[f]
		if paths[f] == input {
			paths[f] = base + ".layout" + pipeline.Extensions[f]
		}
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultOutputBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Longest match first so "x.legend.svg" loses ".legend.svg", not ".svg".
	var ext string
	for _, f := range pipeline.FormatNames {
		if e := pipeline.Extensions[f]; strings.HasSuffix(output, e) && len(e) > len(ext) {
			ext = e
		}
	}
	return strings.TrimSuffix(output, ext)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	formats := pipeline.ParseFormats(s)
	if len(formats) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return formats
}
