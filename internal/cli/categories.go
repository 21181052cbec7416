package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

// categoriesCommand prints the legend of a drawing: every category of the
// notation with its color and description.
func (c *CLI) categoriesCommand() *cobra.Command {
	var (
		in      inputFlags
		lf      layoutFlags
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:     "categories [dataset.json]",
		Aliases: []string{"legend"},
		Short:   "List the annotation categories of genomic contexts",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.bind(args); err != nil {
				return err
			}
			opts, err := c.options(cmd, &in, &lf)
			if err != nil {
				return err
			}
			_, l, _, err := c.loadLayout(cmd.Context(), &in, opts, noCache)
			if err != nil {
				return err
			}

			legends := append([]layout.Legend{l.Legend}, l.FieldLegends...)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(legends)
			}
			for _, lg := range legends {
				printLegend(lg)
			}
			return nil
		},
	}

	in.register(cmd)
	lf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the legends as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// printLegend prints one legend as a table with a color swatch per entry.
func printLegend(lg layout.Legend) {
	fmt.Println(StyleTitle.Render(lg.Title))
	if len(lg.Entries) == 0 {
		printDetail("no categories")
		printNewline()
		return
	}
	fmt.Println(legendTable(lg).Render())
	printDetail("%d categories", len(lg.Entries))
	printNewline()
}

func legendTable(lg layout.Legend) *table.Table {
	rows := make([][]string, len(lg.Entries))
	for i, e := range lg.Entries {
		desc := e.Description
		if desc == "" {
			desc = "—"
		}
		rows[i] = []string{"  ", e.ID, e.Color, desc}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "ID", "Color", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case 0:
				return cellStyle.Background(lipgloss.Color(lg.Entries[row].Color))
			case 1:
				return cellStyle.Foreground(colorAccent)
			case 2:
				return cellStyle.Foreground(colorFaint)
			}
			return cellStyle.Foreground(colorText)
		})
}
