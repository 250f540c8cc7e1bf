package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/descent/codepoint"
	"github.com/dhamidi/descent/format"
	"github.com/dhamidi/descent/parser"
)

func newDecodeCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode a file as UTF-8 and list its codepoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			src, err := readInput(cmd.InOrStdin(), filename)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			d := codepoint.NewDecoder(src, parser.WithFile(filename))
			cps := []codepoint.Codepoint{}
			for c := range d.All() {
				cps = append(cps, c)
			}
			if err := enc.Encode(cps); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if err := d.Err(); err != nil {
				return fmt.Errorf("invalid UTF-8 at byte %d: %w", d.Offset(), err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json, yaml, text)")

	return cmd
}
