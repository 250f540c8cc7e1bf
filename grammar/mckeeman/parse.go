// Package mckeeman parses grammars written in McKeeman Form, the notation
// used on json.org.
//
// A grammar is a list of rules separated by blank lines. A rule is a name
// on its own line followed by indented alternatives, one per line:
//
//	digits
//	    digit
//	    digit digits
//
//	digit
//	    '0' . '9'
package mckeeman

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/descent/codepoint"
	"github.com/dhamidi/descent/parser"
)

const indentation = "    "

type reader struct {
	p *parser.Parser[byte]
}

// Parse reads a complete grammar. Blank lines may follow the last rule;
// any other trailing input is a mismatch.
func Parse(src []byte, opts ...parser.Option) (*Grammar, error) {
	r := &reader{p: parser.New(src, append([]parser.Option{parser.WithLines()}, opts...)...)}
	return parser.Run(r.p, r.document)
}

func (r *reader) document() (*Grammar, error) {
	g, err := r.grammar()
	if err != nil {
		return nil, err
	}
	parser.Many(r.p, r.newline)
	if err := r.p.End(); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *reader) grammar() (*Grammar, error) {
	first, err := r.rule()
	if err != nil {
		return nil, err
	}
	rest := parser.Many(r.p, func() (*Rule, error) {
		if _, err := r.newline(); err != nil {
			return nil, err
		}
		return r.rule()
	})
	return &Grammar{Rules: append([]*Rule{first}, rest...)}, nil
}

func (r *reader) rule() (*Rule, error) {
	return parser.Speculate(r.p, func() (*Rule, error) {
		parser.Many(r.p, r.newline)
		rule := &Rule{Pos: r.p.Position()}
		name, err := r.name()
		if err != nil {
			return nil, err
		}
		rule.Name = name
		if _, err := r.newline(); err != nil {
			return nil, err
		}
		rule.Nothing = r.nothing()
		rule.Alternatives, err = parser.Many1(r.p, r.alternative)
		if err != nil {
			return nil, err
		}
		return rule, nil
	})
}

func (r *reader) nothing() bool {
	err := r.p.Region(func() error {
		if _, err := r.indentation(); err != nil {
			return err
		}
		if _, err := r.p.Match([]byte(`""`), `""`); err != nil {
			return err
		}
		_, err := r.newline()
		return err
	})
	return err == nil
}

func (r *reader) alternative() (Alternative, error) {
	if _, err := r.indentation(); err != nil {
		return nil, err
	}
	first, err := r.item()
	if err != nil {
		return nil, err
	}
	rest := parser.Many(r.p, func() (Item, error) {
		if _, err := r.space(); err != nil {
			return nil, err
		}
		return r.item()
	})
	if _, err := r.newline(); err != nil {
		return nil, err
	}
	return append(Alternative{first}, rest...), nil
}

func (r *reader) item() (Item, error) {
	return parser.Choice(r.p, "literal or rule name", r.literal, r.nameItem)
}

func (r *reader) nameItem() (Item, error) {
	name, err := r.name()
	if err != nil {
		return nil, err
	}
	return Name(name), nil
}

func (r *reader) literal() (Item, error) {
	return parser.Choice(r.p, "literal",
		func() (Item, error) {
			rng, err := r.rangeExpr()
			if err != nil {
				return nil, err
			}
			rng.Exclude = parser.Many(r.p, r.exclude)
			return rng, nil
		},
		func() (Item, error) {
			c, err := r.singleton()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		func() (Item, error) {
			return r.characters()
		},
	)
}

func (r *reader) exclude() (Item, error) {
	if _, err := r.space(); err != nil {
		return nil, err
	}
	if _, err := r.p.Match([]byte("-"), `"-"`); err != nil {
		return nil, err
	}
	if _, err := r.space(); err != nil {
		return nil, err
	}
	return parser.Choice(r.p, "excluded range or singleton",
		func() (Item, error) {
			return r.rangeExpr()
		},
		func() (Item, error) {
			c, err := r.singleton()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	)
}

// rangeExpr reads "singleton . singleton". A range whose low end is above
// its high end is a defect in the grammar text and panics.
func (r *reader) rangeExpr() (*Range, error) {
	low, err := r.singleton()
	if err != nil {
		return nil, err
	}
	for _, sep := range []string{" ", ".", " "} {
		if _, err := r.p.Match([]byte(sep), strconv.Quote(sep)); err != nil {
			return nil, err
		}
	}
	high, err := r.singleton()
	if err != nil {
		return nil, err
	}
	if low.Value > high.Value {
		r.p.Invariant("range", "low end %s is above high end %s", low, high)
	}
	return &Range{Low: low, High: high}, nil
}

func (r *reader) singleton() (Codepoint, error) {
	if _, err := r.p.Match([]byte("'"), "'"); err != nil {
		return Codepoint{}, err
	}
	c, err := parser.Choice(r.p, "hexcode or character",
		func() (Codepoint, error) {
			hex, err := r.hexcode()
			if err != nil {
				return Codepoint{}, err
			}
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return Codepoint{}, r.p.Failf("hexcode, found %q", hex)
			}
			return Codepoint{Value: rune(v), Hex: hex}, nil
		},
		func() (Codepoint, error) {
			c, err := codepoint.DecodeRange(r.p, ' ', 0x10FFFF)
			if err != nil {
				return Codepoint{}, err
			}
			return Codepoint{Value: c.Value, Text: string(c.Source)}, nil
		},
	)
	if err != nil {
		return Codepoint{}, err
	}
	if _, err := r.p.Match([]byte("'"), "'"); err != nil {
		return Codepoint{}, err
	}
	return c, nil
}

// hexcode reads "10" followed by four hex digits, or five, or four.
func (r *reader) hexcode() (string, error) {
	return parser.Choice(r.p, "hexcode",
		func() (string, error) { return r.hexDigits("10", 4) },
		func() (string, error) { return r.hexDigits("", 5) },
		func() (string, error) { return r.hexDigits("", 4) },
	)
}

func (r *reader) hexDigits(prefix string, n int) (string, error) {
	start := r.p.Offset()
	if _, err := r.p.Match([]byte(prefix), strconv.Quote(prefix)); err != nil {
		return "", err
	}
	for range n {
		if _, err := r.p.MatchFunc(isHexDigit, "hex digit"); err != nil {
			return "", err
		}
	}
	return string(r.p.Consumed()[start:]), nil
}

func (r *reader) characters() (Characters, error) {
	if _, err := r.p.Match([]byte(`"`), `'"'`); err != nil {
		return Characters{}, err
	}
	chars, err := parser.Many1(r.p, r.character)
	if err != nil {
		return Characters{}, err
	}
	if _, err := r.p.Match([]byte(`"`), `'"'`); err != nil {
		return Characters{}, err
	}
	var text []byte
	for _, c := range chars {
		text = append(text, c.Source...)
	}
	return Characters{Text: string(text)}, nil
}

func (r *reader) character() (codepoint.Codepoint, error) {
	if b, ok := r.p.Peek(0); ok && b == '"' {
		return codepoint.Codepoint{}, r.p.Fail("character other than '\"'")
	}
	return codepoint.DecodeRange(r.p, ' ', 0x10FFFF)
}

func (r *reader) name() (string, error) {
	letters := r.p.TakeWhile(isLetter)
	if len(letters) == 0 {
		return "", r.p.Fail("rule name")
	}
	return string(letters), nil
}

func (r *reader) space() ([]byte, error)       { return r.p.Match([]byte(" "), "space") }
func (r *reader) newline() ([]byte, error)     { return r.p.Match([]byte("\n"), "newline") }
func (r *reader) indentation() ([]byte, error) { return r.p.Match([]byte(indentation), "indentation") }

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'F'
}

// MustParse is like Parse but panics on failure.
func MustParse(src string) *Grammar {
	g, err := Parse([]byte(src))
	if err != nil {
		panic(fmt.Sprintf("mckeeman: %v", err))
	}
	return g
}
