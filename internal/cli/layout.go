package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/pipeline"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

// layoutCommand creates the layout command for computing draw-lists.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in       inputFlags
		lf       layoutFlags
		output   string
		noCache  bool
		metadata bool
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset.json]",
		Short: "Compute the draw-list of genomic contexts",
		Long: `Compute the draw-list of genomic contexts.

The draw-list is the JSON form of a drawing: every row, glyph, color bar,
track marker and legend entry with its coordinates. It is the same document
'render -f json' produces and can be drawn by any client.

Results of seeded runs are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.bind(args); err != nil {
				return err
			}
			opts, err := c.options(cmd, &in, &lf)
			if err != nil {
				return err
			}
			opts.Hover = metadata
			return c.runLayout(cmd.Context(), &in, opts, output, noCache)
		},
	}

	in.register(cmd)
	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json); - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "keep gene metadata used by hover titles")

	return cmd
}

// loadLayout runs the load and layout stages.
func (c *CLI) loadLayout(ctx context.Context, in *inputFlags, opts pipeline.Options, noCache bool) (*fetch.Bundle, layout.Layout, bool, error) {
	runner, cleanup, err := c.newRunner(ctx, in, noCache)
	if err != nil {
		return nil, layout.Layout{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	spinner := newSpinnerWithContext(ctx, "Loading "+in.label()+"...")
	spinner.Start()

	b, key, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return nil, layout.Layout{}, false, err
	}
	spinner.Update(fmt.Sprintf("Computing layout of %d rows...", b.Dataset.Len()))
	l, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, b, key, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, layout.Layout{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, layout.Layout{}, false, ctx.Err()
	}
	for _, w := range b.Warnings {
		printWarning("%s", w)
	}
	for _, w := range l.Warnings {
		printWarning("%s", w)
	}
	return b, l, hit, nil
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, in *inputFlags, opts pipeline.Options, output string, noCache bool) error {
	_, l, cacheHit, err := c.loadLayout(ctx, in, opts, noCache)
	if err != nil {
		return err
	}

	opts.SetRenderDefaults()
	data, err := pipeline.RenderFormat(ctx, pipeline.FormatJSON, l, nil, opts)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = in.name() + ".layout.json"
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Rows), l.GlyphCount(), cacheHit)
	printNewline()
	printNextStep("Legend", "geco categories "+in.commandArgs())

	return nil
}

// commandArgs repeats the input of a command for next-step hints.
func (in *inputFlags) commandArgs() string {
	if in.dataset != "" {
		return in.dataset
	}
	return "-q " + in.query
}
