// Package datafile parses indentation-structured data files in the style
// of the Endless Sky game data format.
//
// Each non-empty line holds whitespace-separated tokens. A line indented
// deeper than the previous node becomes its child; siblings share the same
// indentation. Tokens may be quoted with '"' or '`' to include spaces.
// Comments start with '#' and run to the end of the line.
package datafile

import (
	"strings"

	"github.com/dhamidi/descent/parser"
)

// Span is a half-open range of line numbers.
type Span struct {
	Start, End int
}

type Node struct {
	Indent string
	// Tokens are the raw tokens, including their quotes.
	Tokens   []string
	Lines    Span
	Children []*Node
}

func (*Node) Kind() string { return "Node" }

// Values returns the tokens with quotes removed.
func (n *Node) Values() []string {
	values := make([]string, len(n.Tokens))
	for i, tok := range n.Tokens {
		values[i] = unquote(tok)
	}
	return values
}

// Child returns the first child whose first token is key.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if len(c.Tokens) > 0 && unquote(c.Tokens[0]) == key {
			return c
		}
	}
	return nil
}

func unquote(tok string) string {
	if len(tok) >= 2 && (tok[0] == '"' || tok[0] == '`') && tok[len(tok)-1] == tok[0] {
		return tok[1 : len(tok)-1]
	}
	return tok
}

type reader struct {
	p *parser.Parser[byte]
}

// Parse reads every top-level node of a data file.
func Parse(src []byte, opts ...parser.Option) ([]*Node, error) {
	r := &reader{p: parser.New(src, append([]parser.Option{parser.WithLines()}, opts...)...)}
	return parser.Run(r.p, func() ([]*Node, error) {
		nodes := parser.Many(r.p, func() (*Node, error) {
			return r.node(nil)
		})
		parser.Many(r.p, r.emptyLine)
		return nodes, r.p.End()
	})
}

// Next reads the next top-level node from p, skipping blank and comment
// lines before it.
func Next(p *parser.Parser[byte]) (*Node, error) {
	r := &reader{p: p}
	return r.node(nil)
}

// node reads a line and its descendants. parent is the indentation of the
// enclosing node, or nil at the top level.
func (r *reader) node(parent *string) (*Node, error) {
	return parser.Speculate(r.p, func() (*Node, error) {
		start := r.p.Line()
		parser.Many(r.p, r.emptyLine)
		n, err := r.dataLine()
		if err != nil {
			return nil, err
		}
		switch {
		case parent == nil && n.Indent != "":
			return nil, r.p.Fail("unindented line")
		case parent != nil && (n.Indent == *parent || !strings.HasPrefix(n.Indent, *parent)):
			return nil, r.p.Failf("line indented deeper than %q", *parent)
		}
		for {
			child, ok := parser.Attempt(r.p, func() (*Node, error) {
				child, err := r.node(&n.Indent)
				if err != nil {
					return nil, err
				}
				if len(n.Children) > 0 && child.Indent != n.Children[0].Indent {
					return nil, r.p.Failf("indentation %q shared by siblings", n.Children[0].Indent)
				}
				return child, nil
			})
			if !ok {
				break
			}
			n.Children = append(n.Children, child)
		}
		n.Lines = Span{Start: start, End: r.p.Line()}
		return n, nil
	})
}

func (r *reader) dataLine() (*Node, error) {
	n := &Node{Indent: string(r.p.TakeWhile(isSpace))}
	for {
		tok, ok := parser.Attempt(r.p, r.token)
		if !ok {
			break
		}
		n.Tokens = append(n.Tokens, tok)
		r.p.TakeWhile(isSpace)
	}
	if len(n.Tokens) == 0 {
		return nil, r.p.Fail("token")
	}
	if _, err := r.emptyLine(); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *reader) token() (string, error) {
	c, ok := r.p.Peek(0)
	if !ok {
		return "", r.p.Fail("token")
	}
	if c == '"' || c == '`' {
		r.p.Consume(1)
		body := r.p.TakeWhile(func(b byte) bool { return b != c && b != '\n' })
		if _, err := r.p.Match([]byte{c}, "closing "+string(c)); err != nil {
			return "", err
		}
		return string(c) + string(body) + string(c), nil
	}
	if c == '#' || c <= ' ' {
		return "", r.p.Fail("token")
	}
	return string(r.p.TakeWhile(func(b byte) bool { return b > ' ' })), nil
}

// emptyLine reads a line holding only whitespace and an optional comment.
func (r *reader) emptyLine() (int, error) {
	line := r.p.Line()
	r.p.TakeWhile(isSpace)
	if c, ok := r.p.Peek(0); ok && c == '#' {
		r.p.TakeWhile(func(b byte) bool { return b != '\n' })
	}
	_, err := r.lineEnd()
	return line, err
}

// lineEnd matches a newline, or the end of input for a final line without
// one.
func (r *reader) lineEnd() ([]byte, error) {
	if r.p.AtEnd() {
		return nil, nil
	}
	return r.p.Match([]byte("\n"), "end of line")
}

func isSpace(b byte) bool {
	return b <= ' ' && b != '\n'
}
