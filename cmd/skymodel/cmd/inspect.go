package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/msto63/skymodel/internal/skymodel"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model>",
		Short: "Show the components of a sky model as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := opts.readModel(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(args[0]))
			fmt.Fprintln(out, renderComponents(model))
			fmt.Fprintln(out, renderSummary(model))
			for _, w := range model.Warnings {
				fmt.Fprintln(out, warningStyle.Render("warning: "+w.Error()))
			}
			return nil
		},
	}
}

var inspectHeaders = []string{"Name", "Type", "RA", "Dec", "a", "b", "pa", "Freq", "Flux", "Alpha"}

func renderComponents(model *skymodel.Model) string {
	var rows [][]string
	for _, src := range model.Sources {
		for _, c := range src.Components {
			row := []string{
				src.Name,
				c.Type.String(),
				c.Position.RAStr,
				c.Position.DecStr,
				"", "", "",
				formatNumber(c.SED.Frequency) + " " + c.SED.FrequencyUnit,
				formatNumber(c.SED.Flux.I) + " " + c.SED.Flux.Unit,
				formatNumber(c.SED.Alpha),
			}
			if c.Type == skymodel.Gaussian && c.Shape != nil {
				row[4], row[5], row[6] = formatNumber(c.Shape.Major), formatNumber(c.Shape.Minor), formatNumber(c.Shape.PA)
			}
			rows = append(rows, row)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(inspectHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 4:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func renderSummary(model *skymodel.Model) string {
	components := 0
	for _, src := range model.Sources {
		components += len(src.Components)
	}

	summary := fmt.Sprintf("%d sources, %d components", len(model.Sources), components)
	if model.FormatVersion != "" {
		summary += ", file format " + model.FormatVersion
	}
	if n := len(model.Warnings); n > 0 {
		return mutedStyle.Render(summary) + " " + warningStyle.Render(fmt.Sprintf("(%d warnings)", n))
	}
	return mutedStyle.Render(summary)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
