package mckeeman

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/scanner"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/descent/parser"
)

// ToEBNF converts g into an ebnf.Grammar. Ranges become ebnf ranges and
// their exclusions are dropped, since EBNF has no set difference. A rule
// that matches nothing becomes an option around its alternatives.
func ToEBNF(g *Grammar) ebnf.Grammar {
	out := make(ebnf.Grammar, len(g.Rules))
	for _, rule := range g.Rules {
		pos := scannerPosition(rule.Pos)
		alts := make(ebnf.Alternative, 0, len(rule.Alternatives))
		for _, alt := range rule.Alternatives {
			seq := make(ebnf.Sequence, 0, len(alt))
			for _, item := range alt {
				seq = append(seq, expression(item, pos))
			}
			if len(seq) == 1 {
				alts = append(alts, seq[0])
			} else {
				alts = append(alts, seq)
			}
		}
		var expr ebnf.Expression = alts
		if len(alts) == 1 {
			expr = alts[0]
		}
		if rule.Nothing {
			expr = &ebnf.Option{Lbrack: pos, Body: expr}
		}
		if _, dup := out[rule.Name]; dup {
			continue
		}
		out[rule.Name] = &ebnf.Production{
			Name: &ebnf.Name{StringPos: pos, String: rule.Name},
			Expr: expr,
		}
	}
	return out
}

func expression(item Item, pos scanner.Position) ebnf.Expression {
	switch item := item.(type) {
	case Name:
		return &ebnf.Name{StringPos: pos, String: string(item)}
	case Codepoint:
		return &ebnf.Token{StringPos: pos, String: string(item.Value)}
	case Characters:
		return &ebnf.Token{StringPos: pos, String: item.Text}
	case *Range:
		low := &ebnf.Token{StringPos: pos, String: string(item.Low.Value)}
		if item.Low.Value == item.High.Value {
			return low
		}
		return &ebnf.Range{Begin: low, End: &ebnf.Token{StringPos: pos, String: string(item.High.Value)}}
	}
	panic(fmt.Sprintf("mckeeman: unexpected item %T", item))
}

func scannerPosition(pos parser.Position) scanner.Position {
	return scanner.Position{
		Filename: pos.File,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}

// Verify checks that every referenced rule is defined, that every rule is
// reachable from start and that no rule is defined twice. An empty start
// selects the first rule.
func Verify(g *Grammar, start string) error {
	if start == "" && len(g.Rules) > 0 {
		start = g.Rules[0].Name
	}
	var errs []error
	seen := make(map[string]bool, len(g.Rules))
	for _, rule := range g.Rules {
		if seen[rule.Name] {
			errs = append(errs, fmt.Errorf("%s: rule %s defined more than once", rule.Pos, rule.Name))
		}
		seen[rule.Name] = true
	}
	for _, err := range errorList(ebnf.Verify(ToEBNF(g), start)) {
		// McKeeman Form has no lexical productions.
		if strings.Contains(err.Error(), "reference to non-lexical production") {
			continue
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// errorList flattens the slice-typed error returned by ebnf.Verify.
func errorList(err error) []error {
	if err == nil {
		return nil
	}
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := range v.Len() {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// WriteEBNF writes the ToEBNF form of g, one production per rule in
// grammar order.
func WriteEBNF(w io.Writer, g *Grammar) error {
	eg := ToEBNF(g)
	var b strings.Builder
	for _, rule := range g.Rules {
		prod, ok := eg[rule.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s = ", prod.Name.String)
		writeExpression(&b, prod.Expr)
		b.WriteString(" .\n")
		delete(eg, rule.Name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeExpression(b *strings.Builder, e ebnf.Expression) {
	switch x := e.(type) {
	case ebnf.Sequence:
		for i, v := range x {
			if i != 0 {
				b.WriteByte(' ')
			}
			writeExpression(b, v)
		}
	case ebnf.Alternative:
		for i, v := range x {
			if i != 0 {
				b.WriteString(" | ")
			}
			writeExpression(b, v)
		}
	case *ebnf.Name:
		b.WriteString(x.String)
	case *ebnf.Token:
		fmt.Fprintf(b, "%q", x.String)
	case *ebnf.Option:
		b.WriteString("[ ")
		writeExpression(b, x.Body)
		b.WriteString(" ]")
	case *ebnf.Range:
		writeExpression(b, x.Begin)
		b.WriteString(" … ")
		writeExpression(b, x.End)
	}
}
