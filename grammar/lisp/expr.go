package lisp

import (
	"strings"
)

// Expr is an S-expression: an *Atom or a *Pair.
type Expr interface {
	Kind() string
	String() string
	expr()
}

type Atom struct {
	Name string
	// Implicit marks the NIL that terminates a list written without an
	// explicit dotted tail.
	Implicit bool
}

// Nil returns the atom that ends a list.
func Nil() *Atom {
	return &Atom{Name: "NIL", Implicit: true}
}

func (*Atom) Kind() string     { return "Atom" }
func (a *Atom) String() string { return a.Name }
func (*Atom) expr()            {}

type Pair struct {
	Car, Cdr Expr
}

func (*Pair) Kind() string { return "Pair" }
func (*Pair) expr()        {}

// String uses dotted-pair notation with the middle dot.
func (p *Pair) String() string {
	return "(" + p.Car.String() + " · " + p.Cdr.String() + ")"
}

// List builds a proper list ending in an implicit NIL.
func List(elems ...Expr) Expr {
	var tail Expr = Nil()
	for i := len(elems) - 1; i >= 0; i-- {
		tail = &Pair{Car: elems[i], Cdr: tail}
	}
	return tail
}

// Elements returns the cars of a list and its final cdr.
func Elements(e Expr) ([]Expr, Expr) {
	var elems []Expr
	for {
		p, ok := e.(*Pair)
		if !ok {
			return elems, e
		}
		elems = append(elems, p.Car)
		e = p.Cdr
	}
}

// Call is an M-expression: a function applied to bracketed arguments.
// Arguments are S-expressions or further calls.
type Call struct {
	Func string
	Args []Node
}

func (*Call) Kind() string { return "Call" }

func (c *Call) String() string {
	if c.Args == nil {
		return c.Func
	}
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = arg.String()
	}
	return c.Func + "[" + strings.Join(parts, "; ") + "]"
}

// Node is anything produced by this package's parsers.
type Node interface {
	Kind() string
	String() string
}
