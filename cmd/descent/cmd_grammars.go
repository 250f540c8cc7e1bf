package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dhamidi/descent/grammar"
)

func newGrammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the built-in grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Extensions", "Units", "Description"})
			table.SetAutoWrapText(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, g := range grammar.All() {
				units := "bytes"
				if g.Runes {
					units = "runes"
				}
				table.Append([]string{g.Name, strings.Join(g.Extensions, " "), units, g.Description})
			}
			table.Render()
			return nil
		},
	}
}
