package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/descent/grammar"
	"github.com/dhamidi/descent/grammar/mckeeman"
	"github.com/dhamidi/descent/parser"
)

var errCheckFailed = errors.New("check failed")

func newCheckCmd() *cobra.Command {
	var startRule string
	var printEBNF bool

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify a McKeeman Form grammar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			stderr := cmd.ErrOrStderr()

			src, err := readInput(cmd.InOrStdin(), filename)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return err
			}

			g, _ := grammar.Lookup("mckeeman")
			v, err := g.Parse(src, parser.WithFile(filename))
			if err != nil {
				printErrors(stderr, err)
				return parseError(err)
			}
			mg := v.(*mckeeman.Grammar)

			if printEBNF {
				if err := mckeeman.WriteEBNF(cmd.OutOrStdout(), mg); err != nil {
					return err
				}
			}

			failed := false
			if err := mckeeman.Verify(mg, startRule); err != nil {
				printErrors(stderr, err)
				failed = true
			}
			for _, cycle := range mckeeman.LeftRecursive(mg) {
				rule := mg.Rule(cycle[0])
				fmt.Fprintf(stderr, "%s: rule %s is left-recursive: %s\n",
					rule.Pos, rule.Name, strings.Join(cycle, " → "))
				failed = true
			}
			if failed {
				return errCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startRule, "start", "", "start rule for verification (default: the first rule)")
	cmd.Flags().BoolVar(&printEBNF, "ebnf", false, "print the grammar in EBNF")

	return cmd
}

func printErrors(w io.Writer, err error) {
	if list, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range list.Unwrap() {
			fmt.Fprintln(w, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}
