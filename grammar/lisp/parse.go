// Package lisp parses the S-expressions and M-expressions of LISP 1.5.
//
// S-expressions are atoms, dotted pairs such as (A · B) and lists such as
// (A, B, C) or (A B C), which abbreviate nested pairs ending in NIL.
// M-expressions apply a function to arguments: cons[A; (B · C)].
package lisp

import (
	"errors"

	"github.com/dhamidi/descent/codepoint"
	"github.com/dhamidi/descent/parser"
)

const middleDot = '·'

type reader struct {
	p *parser.Parser[rune]
}

func newReader(src []byte, opts []parser.Option) (*reader, error) {
	opts = append([]parser.Option{parser.WithLines()}, opts...)
	runes, err := codepoint.Runes(src, opts...)
	if err != nil {
		rebase(err, runes)
		return nil, err
	}
	return &reader{p: parser.New(runes, opts...)}, nil
}

// rebase moves a decoding mismatch from byte offsets to rune offsets, the
// unit every other position of this package uses. decoded holds the runes
// read before the failure.
func rebase(err error, decoded []rune) {
	var m *parser.Mismatch
	if !errors.As(err, &m) {
		return
	}
	lineStart := 0
	for i, r := range decoded {
		if r == '\n' {
			lineStart = i + 1
		}
	}
	m.Pos.Offset = len(decoded)
	m.Pos.Column = len(decoded) - lineStart + 1
}

// ParseSExpr reads a single S-expression surrounded by optional blanks.
func ParseSExpr(src []byte, opts ...parser.Option) (Expr, error) {
	r, err := newReader(src, opts)
	if err != nil {
		return nil, err
	}
	return parser.Run(r.p, func() (Expr, error) {
		return whole(r, r.sexpr)
	})
}

// ParseMExpr reads a single M-expression surrounded by optional blanks.
func ParseMExpr(src []byte, opts ...parser.Option) (*Call, error) {
	r, err := newReader(src, opts)
	if err != nil {
		return nil, err
	}
	return parser.Run(r.p, func() (*Call, error) {
		return whole(r, r.mexpr)
	})
}

// ParseAll reads a sequence of S-expressions separated by commas or
// blanks.
func ParseAll(src []byte, opts ...parser.Option) ([]Expr, error) {
	r, err := newReader(src, opts)
	if err != nil {
		return nil, err
	}
	return parser.Run(r.p, func() ([]Expr, error) {
		r.p.TakeWhile(isSeparator)
		exprs := parser.Many(r.p, func() (Expr, error) {
			e, err := r.sexpr()
			if err != nil {
				return nil, err
			}
			r.p.TakeWhile(isSeparator)
			return e, nil
		})
		return exprs, r.p.End()
	})
}

func whole[V any](r *reader, rule func() (V, error)) (V, error) {
	r.p.TakeWhile(isBlank)
	v, err := rule()
	if err != nil {
		return v, err
	}
	r.p.TakeWhile(isBlank)
	return v, r.p.End()
}

func (r *reader) sexpr() (Expr, error) {
	return parser.Choice(r.p, "atom or list",
		func() (Expr, error) {
			return r.atom()
		},
		r.list,
	)
}

func (r *reader) atom() (*Atom, error) {
	name := r.p.TakeWhile(func(c rune) bool { return !isDelimiter(c) })
	if len(name) == 0 {
		return nil, r.p.Fail("atom")
	}
	return &Atom{Name: string(name)}, nil
}

func (r *reader) list() (Expr, error) {
	if _, err := r.p.Match([]rune("("), `"("`); err != nil {
		return nil, err
	}
	r.p.TakeWhile(isBlank)
	head, err := r.sexpr()
	if err != nil {
		return nil, err
	}
	return r.tail(head)
}

// tail reads what follows an element inside parentheses: a dotted cdr, the
// closing parenthesis, or a separator and the next element.
func (r *reader) tail(head Expr) (Expr, error) {
	return parser.Choice(r.p, `"·", ")" or another element`,
		func() (Expr, error) {
			r.p.TakeWhile(isBlank)
			if _, err := r.p.Match([]rune{middleDot}, `"·"`); err != nil {
				return nil, err
			}
			r.p.TakeWhile(isBlank)
			cdr, err := r.sexpr()
			if err != nil {
				return nil, err
			}
			r.p.TakeWhile(isBlank)
			if _, err := r.p.Match([]rune(")"), `")"`); err != nil {
				return nil, err
			}
			return &Pair{Car: head, Cdr: cdr}, nil
		},
		func() (Expr, error) {
			r.p.TakeWhile(isBlank)
			if _, err := r.p.Match([]rune(")"), `")"`); err != nil {
				return nil, err
			}
			return &Pair{Car: head, Cdr: Nil()}, nil
		},
		func() (Expr, error) {
			if sep := r.p.TakeWhile(isSeparator); len(sep) == 0 {
				return nil, r.p.Fail("separator")
			}
			next, err := r.sexpr()
			if err != nil {
				return nil, err
			}
			rest, err := r.tail(next)
			if err != nil {
				return nil, err
			}
			return &Pair{Car: head, Cdr: rest}, nil
		},
	)
}

func (r *reader) mexpr() (*Call, error) {
	fn, err := r.atom()
	if err != nil {
		return nil, err
	}
	call := &Call{Func: fn.Name}
	if _, err := r.p.Match([]rune("["), `"["`); err != nil {
		return call, nil
	}
	call.Args = []Node{}
	first, err := r.argument()
	if err != nil {
		return nil, err
	}
	call.Args = append(call.Args, first)
	call.Args = append(call.Args, parser.Many(r.p, func() (Node, error) {
		r.p.TakeWhile(isBlank)
		if _, err := r.p.Match([]rune(";"), `";"`); err != nil {
			return nil, err
		}
		return r.argument()
	})...)
	r.p.TakeWhile(isBlank)
	if _, err := r.p.Match([]rune("]"), `"]"`); err != nil {
		return nil, err
	}
	return call, nil
}

// argument is a nested call when an atom is directly followed by "[",
// and an S-expression otherwise.
func (r *reader) argument() (Node, error) {
	r.p.TakeWhile(isBlank)
	return parser.Choice(r.p, "argument",
		func() (Node, error) {
			call, err := r.mexpr()
			if err != nil {
				return nil, err
			}
			if call.Args == nil {
				return nil, r.p.Fail(`"["`)
			}
			return call, nil
		},
		func() (Node, error) {
			return r.sexpr()
		},
	)
}

func isDelimiter(c rune) bool {
	switch c {
	case '(', ')', '[', ']', ';', ',', middleDot:
		return true
	}
	return isBlank(c)
}

func isBlank(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSeparator(c rune) bool {
	return c == ',' || isBlank(c)
}
