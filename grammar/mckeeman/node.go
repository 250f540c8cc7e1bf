package mckeeman

import (
	"fmt"
	"strings"

	"github.com/dhamidi/descent/parser"
)

type Grammar struct {
	Rules []*Rule
}

// Rule returns the first rule called name, or nil.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// String renders the grammar back into McKeeman Form.
func (g *Grammar) String() string {
	var b strings.Builder
	for i, r := range g.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.String())
	}
	return b.String()
}

func (g *Grammar) Kind() string { return "Grammar" }

type Rule struct {
	Name string
	// Nothing is set when the rule also matches the empty string.
	Nothing      bool
	Alternatives []Alternative
	Pos          parser.Position
}

func (r *Rule) Kind() string { return "Rule" }

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteByte('\n')
	if r.Nothing {
		b.WriteString(indentation + `""` + "\n")
	}
	for _, alt := range r.Alternatives {
		b.WriteString(indentation)
		b.WriteString(alt.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type Alternative []Item

func (a Alternative) Kind() string { return "Alternative" }

func (a Alternative) String() string {
	parts := make([]string, len(a))
	for i, item := range a {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

// Item is one element of an alternative: a Name, Codepoint, Range or
// Characters.
type Item interface {
	Kind() string
	String() string
	item()
}

// Name refers to another rule.
type Name string

func (Name) Kind() string     { return "Name" }
func (n Name) String() string { return string(n) }
func (Name) item()            {}

// Codepoint is a singleton literal. Exactly one of Hex and Text is set:
// Hex holds the digits of a hexcode, Text the literal character.
type Codepoint struct {
	Value rune
	Hex   string
	Text  string
}

func (Codepoint) Kind() string { return "Codepoint" }
func (Codepoint) item()        {}

func (c Codepoint) String() string {
	if c.Hex != "" {
		return "'" + c.Hex + "'"
	}
	return "'" + c.Text + "'"
}

// Range matches any codepoint between Low and High inclusive that is not
// matched by one of the exclusions. Exclusions are Codepoint or *Range
// items.
type Range struct {
	Low, High Codepoint
	Exclude   []Item
}

func (*Range) Kind() string { return "Range" }
func (*Range) item()        {}

func (r *Range) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s . %s", r.Low, r.High)
	for _, x := range r.Exclude {
		fmt.Fprintf(&b, " - %s", x)
	}
	return b.String()
}

func (r *Range) Contains(c rune) bool {
	if c < r.Low.Value || c > r.High.Value {
		return false
	}
	for _, x := range r.Exclude {
		switch x := x.(type) {
		case Codepoint:
			if x.Value == c {
				return false
			}
		case *Range:
			if x.Contains(c) {
				return false
			}
		}
	}
	return true
}

// Characters is a quoted literal string.
type Characters struct {
	Text string
}

func (Characters) Kind() string     { return "Characters" }
func (c Characters) String() string { return `"` + c.Text + `"` }
func (Characters) item()            {}
