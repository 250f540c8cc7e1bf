// Package anbncn recognizes the context-sensitive language aⁿbⁿcⁿ (n ≥ 0),
// which no context-free grammar describes but which a descent parser with
// counters handles directly.
package anbncn

import (
	"github.com/dhamidi/descent/parser"
)

// Sentence is a recognized input.
type Sentence struct {
	N int
}

func (Sentence) Kind() string { return "Sentence" }

// Recognize accepts exactly the inputs a…ab…bc…c with three equally long
// runs.
func Recognize(src []byte, opts ...parser.Option) (Sentence, error) {
	p := parser.New(src, opts...)
	return parser.Run(p, func() (Sentence, error) {
		s, err := Match(p)
		if err != nil {
			return s, err
		}
		return s, p.End()
	})
}

// Match consumes one sentence from p. Runs are read greedily.
func Match(p *parser.Parser[byte]) (Sentence, error) {
	return parser.Speculate(p, func() (Sentence, error) {
		n := run(p, 'a')
		for _, unit := range []byte{'b', 'c'} {
			if got := run(p, unit); got != n {
				return Sentence{}, p.Failf("%d %q to match %d %q, found %d", n, unit, n, 'a', got)
			}
		}
		return Sentence{N: n}, nil
	})
}

func run(p *parser.Parser[byte], unit byte) int {
	return len(p.TakeWhile(func(b byte) bool { return b == unit }))
}
