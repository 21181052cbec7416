package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/pkg/pipeline"
)

// renderFlags are the output options of the render command.
type renderFlags struct {
	output   string
	formats  string
	style    string
	legend   bool
	hover    bool
	scale    float64
	detailed bool
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in inputFlags
		lf layoutFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [dataset.json]",
		Short: "Render genomic contexts to SVG, PNG or JSON",
		Long: `Render the genomic contexts of a dataset file or of a backend query.

The dataset is a JSON object mapping each central gene to its neighborhood.
With --query the contexts are fetched from the configured source instead:

  geco render contexts.json -f svg,png --legend
  geco render -q COG0001 --cutoff 20 --show-tree -f svg,tree.svg

Layouts of seeded runs are cached; --seed 0 draws a fresh palette each time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.bind(args); err != nil {
				return err
			}
			opts, err := c.options(cmd, &in, &lf)
			if err != nil {
				return err
			}
			rf.apply(cmd, &opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), &in, opts, rf)
		},
	}

	in.register(cmd)
	lf.register(cmd)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), png, json, dot, tree.svg (comma-separated)")
	cmd.Flags().StringVar(&rf.style, "style", pipeline.DefaultStyle, "visual style: simple, print")
	cmd.Flags().BoolVar(&rf.legend, "legend", false, "draw the category legend")
	cmd.Flags().BoolVar(&rf.hover, "hover", false, "embed hover titles with gene metadata")
	cmd.Flags().Float64Var(&rf.scale, "png-scale", pipeline.DefaultPNGScale, "PNG pixel ratio")
	cmd.Flags().BoolVar(&rf.detailed, "detailed", false, "label tree nodes with branch lengths (tree formats)")
	cmd.Flags().BoolVar(&rf.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (rf *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	opts.Formats = parseFormats(rf.formats)
	if cmd.Flags().Changed("style") || opts.Style == "" {
		opts.Style = rf.style
	}
	opts.Legend = rf.legend
	opts.Hover = rf.hover
	opts.Scale = rf.scale
	opts.Detailed = rf.detailed
	if slices.ContainsFunc(opts.Formats, isTreeFormat) {
		opts.Params.Options.ShowTree = true
	}
}

func isTreeFormat(f string) bool { return f == pipeline.FormatDOT || f == pipeline.FormatTreeSVG }

// runRender runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, in *inputFlags, opts pipeline.Options, rf renderFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, cleanup, err := c.newRunner(ctx, in, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	spinner := newSpinnerWithContext(ctx, "Drawing "+in.label()+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, w := range result.Warnings {
		printWarning("%s", w)
	}

	paths := outputPaths(rf.output, in.name(), opts.Formats)
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		logger.Debugf("Generated %s: %d bytes", format, len(result.Artifacts[format]))
	}

	prog.done("Rendered " + strings.Join(opts.Formats, ", "))

	if rf.output == "-" {
		return nil
	}
	printSuccess("Rendered %s", in.label())
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.RowCount, result.Stats.GlyphCount, result.CacheInfo.LayoutHit)
	return nil
}

// label names the input in progress messages.
func (in *inputFlags) label() string {
	if in.dataset != "" {
		return filepath.Base(in.dataset)
	}
	return in.query
}

// outputPaths maps every format to its file. A single format writes to
// output as given; several formats share the base path.
func outputPaths(output, name string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, name)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path. Known format extensions are
// stripped from output; an empty output falls back to name.
func basePath(output, name string) string {
	if output == "" || output == "-" {
		return name
	}
	for _, f := range outputExts {
		if strings.HasSuffix(output, "."+f) {
			return strings.TrimSuffix(output, "."+f)
		}
	}
	return output
}

// outputExts lists the format extensions, longest suffix first.
var outputExts = []string{
	pipeline.FormatTreeSVG,
	pipeline.FormatSVG,
	pipeline.FormatPNG,
	pipeline.FormatJSON,
	pipeline.FormatDOT,
}

// writeOutput writes data to path; "-" selects stdout.
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
