package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/descent/grammar"
	"github.com/dhamidi/descent/internal/suggest"
	"github.com/dhamidi/descent/parser"
)

// readInput reads the named file, or standard input for "-".
func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// selectGrammar resolves --grammar, falling back to the file extension.
func selectGrammar(name, filename string) (grammar.Grammar, error) {
	if name != "" {
		if g, ok := grammar.Lookup(name); ok {
			return g, nil
		}
		msg := fmt.Sprintf("unknown grammar %q", name)
		if matches := suggest.Closest(name, grammar.Names(), 3); len(matches) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(matches, " or "))
		}
		return grammar.Grammar{}, errors.New(msg)
	}
	if g, ok := grammar.ForFile(filename); ok {
		return g, nil
	}
	return grammar.Grammar{}, fmt.Errorf("cannot pick a grammar for %s: use --grammar (one of %s)",
		filename, strings.Join(grammar.Names(), ", "))
}

func parseError(err error) error {
	var inv *parser.InvariantError
	if errors.As(err, &inv) {
		return fmt.Errorf("internal error: %w", err)
	}
	if parser.IsMismatch(err) {
		return fmt.Errorf("no match: %w", err)
	}
	return err
}
