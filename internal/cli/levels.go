package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/pkg/pipeline"
)

// levelsCommand lists the levels of a hierarchical notation found in a
// dataset, e.g. the eggNOG taxonomic levels.
func (c *CLI) levelsCommand() *cobra.Command {
	var (
		in      inputFlags
		lf      layoutFlags
		pick    bool
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "levels [dataset.json]",
		Short: "List the levels of a hierarchical notation",
		Long: `List the levels of a hierarchical notation present in the dataset.

Levels are named with the taxonomy labels of the source when available.
With --pick an interactive list selects one and prints its id, ready to be
passed to --taxlevel:

  geco render -q COG0001 -n eggNOG --taxlevel $(geco levels -q COG0001 -n eggNOG --pick)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.bind(args); err != nil {
				return err
			}
			opts, err := c.options(cmd, &in, &lf)
			if err != nil {
				return err
			}
			levels, err := c.loadLevels(cmd.Context(), &in, opts, noCache)
			if err != nil {
				return err
			}

			switch {
			case pick:
				return pickLevel(opts.Params.Notation, levels)
			case asJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(levels)
			}
			printLevels(opts.Params.Notation, levels)
			return nil
		},
	}

	in.register(cmd)
	lf.register(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "select a level interactively and print its id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the levels as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) loadLevels(ctx context.Context, in *inputFlags, opts pipeline.Options, noCache bool) ([]pipeline.Level, error) {
	runner, cleanup, err := c.newRunner(ctx, in, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	opts.SetLayoutDefaults()
	b, _, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	levels := pipeline.LevelsOf(b.Dataset, opts.Params.Notation, b.Labels)
	if len(levels) == 0 {
		return nil, fmt.Errorf("notation %s has no levels in this dataset", opts.Params.Notation)
	}
	return levels, nil
}

func printLevels(notation string, levels []pipeline.Level) {
	rows := make([][]string, len(levels))
	for i, l := range levels {
		rows[i] = []string{l.ID, levelName(l)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Level", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorAccent).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Println(StyleTitle.Render(notation + " levels"))
	fmt.Println(t.Render())
	printNextStep("Color by level", "geco render --notation "+notation+" --taxlevel <level>")
}

// pickLevel runs the interactive picker on stderr and prints the chosen
// level id on stdout.
func pickLevel(notation string, levels []pipeline.Level) error {
	p := tea.NewProgram(NewLevelListModel(notation, levels), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("level picker: %w", err)
	}
	m, ok := final.(LevelListModel)
	if !ok || m.Selected == nil {
		return fmt.Errorf("no level selected")
	}
	fmt.Println(m.Selected.ID)
	return nil
}
