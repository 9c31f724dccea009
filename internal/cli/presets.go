package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/furnace/pkg/style"
)

// presetsCommand prints the preset table.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the named presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(style.Presets()))
			return nil
		},
	}
}

func presetTable(presets []style.Preset) string {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		s := p.Selection
		rows[i] = []string{p.Name, s.Layout.String(), s.Detail.String(), s.Color.String(), s.Symbols.String(), p.Description}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Layout", "Detail", "Color", "Symbols", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			case col == 5:
				return cellStyle.Foreground(colorGray)
			}
			return cellStyle
		})
	return t.Render()
}
