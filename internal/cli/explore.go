package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/salesmap/pkg/pipeline"
)

// exploreCommand creates the explore command for browsing the dataset.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		labelsFile string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse platforms and games interactively",
		Long: `Browse platforms and games interactively.

Lists every platform with its game count, total sales and share of the
whole in treemap order. Press enter to see a platform's games.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, c.Config, &opts, labelsFile); err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "dataset URL (default from config)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "read the dataset from a local JSON file")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "refetch the dataset even if cached")
	cmd.Flags().StringVar(&labelsFile, "labels", "", "TOML file mapping platforms to legend labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runExplore loads and lays out the dataset, then runs the TUI.
func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options, noCache bool) error {
	scene, err := c.loadScene(ctx, opts, noCache)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewExploreModel(scene), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}

// loadScene runs the load and layout stages without rendering.
func (c *CLI) loadScene(ctx context.Context, opts pipeline.Options, noCache bool) (pipeline.Scene, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return pipeline.Scene{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Scene{}, err
	}

	spinner := newSpinnerWithContext(ctx, "Loading dataset...")
	spinner.Start()
	prog := newProgress(c.Logger)

	d, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return pipeline.Scene{}, fmt.Errorf("load: %w", err)
	}
	spinner.SetMessage("Computing layout...")
	root, err := runner.Layout(ctx, d.Root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return pipeline.Scene{}, fmt.Errorf("layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Loaded %d games", len(root.Leaves())))

	return pipeline.NewScene(root, opts.Labels), nil
}
