package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/descent/codepoint"
	"github.com/dhamidi/descent/grammar/anbncn"
	"github.com/dhamidi/descent/grammar/datafile"
	"github.com/dhamidi/descent/grammar/lisp"
	"github.com/dhamidi/descent/grammar/m3u"
	"github.com/dhamidi/descent/grammar/mckeeman"
)

// Node is the grammar-independent shape every parse result is converted to
// before encoding.
type Node struct {
	Kind     string            `json:"kind" yaml:"kind"`
	Value    string            `json:"value,omitempty" yaml:"value,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n *Node) attr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	return n
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Tree converts a value produced by one of the built-in grammars, or a
// slice of decoded codepoints.
func Tree(v any) (*Node, error) {
	switch v := v.(type) {
	case *mckeeman.Grammar:
		n := &Node{Kind: v.Kind()}
		for _, r := range v.Rules {
			n.add(ruleTree(r))
		}
		return n, nil
	case []lisp.Expr:
		n := &Node{Kind: "Program"}
		for _, e := range v {
			n.add(lispTree(e))
		}
		return n, nil
	case *lisp.Call:
		return lispTree(v), nil
	case lisp.Expr:
		return lispTree(v), nil
	case []*datafile.Node:
		n := &Node{Kind: "DataFile"}
		for _, d := range v {
			n.add(dataTree(d))
		}
		return n, nil
	case *m3u.Playlist:
		n := &Node{Kind: v.Kind()}
		if v.Extended() {
			n.attr("header", v.Header)
		}
		for _, e := range v.Entries {
			entry := &Node{Kind: "Entry", Value: e.Address}
			if e.Info != "" {
				entry.attr("title", e.Title)
				entry.attr("seconds", strconv.FormatFloat(e.Seconds, 'f', -1, 64))
			}
			n.add(entry)
		}
		return n, nil
	case anbncn.Sentence:
		return (&Node{Kind: v.Kind()}).attr("n", strconv.Itoa(v.N)), nil
	case []codepoint.Codepoint:
		n := &Node{Kind: "Codepoints"}
		offset := 0
		for _, c := range v {
			n.add((&Node{Kind: "Codepoint", Value: c.String()}).
				attr("offset", strconv.Itoa(offset)).
				attr("bytes", fmt.Sprintf("% X", c.Source)))
			offset += c.Width()
		}
		return n, nil
	}
	return nil, fmt.Errorf("format: cannot encode %T", v)
}

func ruleTree(r *mckeeman.Rule) *Node {
	n := (&Node{Kind: r.Kind(), Value: r.Name}).attr("line", strconv.Itoa(r.Pos.Line))
	if r.Nothing {
		n.attr("nothing", "true")
	}
	for _, alt := range r.Alternatives {
		a := &Node{Kind: alt.Kind()}
		for _, item := range alt {
			a.add(itemTree(item))
		}
		n.add(a)
	}
	return n
}

func itemTree(item mckeeman.Item) *Node {
	switch item := item.(type) {
	case mckeeman.Codepoint:
		return (&Node{Kind: item.Kind(), Value: item.String()}).attr("codepoint", fmt.Sprintf("U+%04X", item.Value))
	case *mckeeman.Range:
		n := &Node{Kind: item.Kind(), Value: item.String()}
		n.add(itemTree(item.Low), itemTree(item.High))
		for _, x := range item.Exclude {
			n.add((&Node{Kind: "Exclude"}).add(itemTree(x)))
		}
		return n
	}
	return &Node{Kind: item.Kind(), Value: item.String()}
}

func lispTree(n lisp.Node) *Node {
	switch n := n.(type) {
	case *lisp.Atom:
		t := &Node{Kind: n.Kind(), Value: n.Name}
		if n.Implicit {
			t.attr("implicit", "true")
		}
		return t
	case *lisp.Pair:
		return (&Node{Kind: n.Kind()}).add(lispTree(n.Car), lispTree(n.Cdr))
	case *lisp.Call:
		t := &Node{Kind: n.Kind(), Value: n.Func}
		for _, arg := range n.Args {
			t.add(lispTree(arg))
		}
		return t
	}
	return &Node{Kind: n.Kind(), Value: n.String()}
}

func dataTree(d *datafile.Node) *Node {
	n := (&Node{Kind: d.Kind(), Value: strings.Join(d.Tokens, " ")}).
		attr("lines", fmt.Sprintf("%d-%d", d.Lines.Start, d.Lines.End))
	for _, c := range d.Children {
		n.add(dataTree(c))
	}
	return n
}
