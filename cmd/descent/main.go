package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/descent/internal/env"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// traceVerbosity is the commonlog verbosity that lets debug messages through.
const traceVerbosity = 2

var verbosity int

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "descent",
		Short:        "Backtracking recursive-descent parsers and the grammars built on them",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Apply(cmd); err != nil {
				return err
			}
			commonlog.Configure(verbosity, nil)
			return nil
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newGrammarsCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
