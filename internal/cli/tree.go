package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/pipeline"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/source"
)

// treeCommand draws the tree of the central genes with Graphviz.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		in        inputFlags
		format    string
		output    string
		detailed  bool
		highlight []string
	)

	cmd := &cobra.Command{
		Use:   "tree [tree.nwk]",
		Short: "Draw the tree of the central genes as DOT or SVG",
		Long: `Draw a Newick tree as Graphviz DOT or SVG.

The tree is read from a file, or fetched for --query from the configured
source. Leaves named with --highlight are drawn in the accent color.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f string
			switch format {
			case "dot":
				f = pipeline.FormatDOT
			case "svg", "":
				f = pipeline.FormatTreeSVG
			default:
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
			}
			if len(args) == 0 && in.query == "" {
				return fmt.Errorf("a tree file or --query is required")
			}
			opts := pipeline.Options{Detailed: detailed, Highlight: highlight, Logger: c.Logger}
			return c.runTree(cmd.Context(), args, &in, f, output, opts)
		},
	}

	cmd.Flags().StringVarP(&in.query, "query", "q", "", "cluster whose tree is fetched")
	cmd.Flags().StringVar(&in.source, "source", "", "source for queries: remote, mongo (default from config)")
	cmd.Flags().BoolVar(&in.refresh, "refresh", false, "bypass cached backend responses")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>); - for stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with branch lengths")
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "leaf names to highlight")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, args []string, in *inputFlags, format, output string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	var (
		root *newick.Node
		name string
	)
	if len(args) > 0 {
		var err error
		if root, _, err = source.ReadTree(args[0]); err != nil {
			return err
		}
		name = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	} else {
		tree, err := c.fetchTree(ctx, in)
		if err != nil {
			return err
		}
		root, name = tree, in.name()
	}
	logger.Infof("Loaded tree: %d leaves", len(root.Leaves()))

	data, err := pipeline.RenderFormat(ctx, format, layout.Layout{}, root, opts)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = name + "." + format
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath != "-" {
		printSuccess("Tree drawn")
		printFile(outputPath)
	}
	return nil
}

// fetchTree loads the tree of a query through the pipeline so the source,
// cache and retry settings match the other commands.
func (c *CLI) fetchTree(ctx context.Context, in *inputFlags) (*newick.Node, error) {
	q, err := in.fetchQuery()
	if err != nil {
		return nil, err
	}
	runner, cleanup, err := c.newRunner(ctx, in, false)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	opts := pipeline.Options{Query: q, Refresh: in.refresh, Logger: c.Logger}
	opts.Params.Options.ShowTree = true
	b, _, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	if b.Tree == nil {
		return nil, fmt.Errorf("no tree available for %s", in.query)
	}
	return b.Tree, nil
}
