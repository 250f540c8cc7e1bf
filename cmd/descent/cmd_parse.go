package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/descent/format"
	"github.com/dhamidi/descent/parser"
)

func newParseCmd() *cobra.Command {
	var grammarName string
	var outputFormat string
	var trace bool
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a file with one of the built-in grammars and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			g, err := selectGrammar(grammarName, filename)
			if err != nil {
				return err
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			src, err := readInput(cmd.InOrStdin(), filename)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			opts := []parser.Option{parser.WithFile(filename)}
			if maxDepth > 0 {
				opts = append(opts, parser.WithMaxDepth(maxDepth))
			}
			if trace {
				commonlog.Configure(max(verbosity, traceVerbosity), nil)
				opts = append(opts, parser.WithLogger(commonlog.GetLogger("descent.trace")))
			}

			v, err := g.Parse(src, opts...)
			if err != nil {
				return parseError(err)
			}
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar to parse with (default: chosen by file extension)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every speculative region at debug level")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum region nesting depth (0 means unlimited)")

	return cmd
}
