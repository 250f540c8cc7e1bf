// Package parser provides the cursor, checkpoint stack and rule combinators
// that backtracking recursive-descent grammars are built from.
//
// A Parser walks an immutable buffer of units (bytes or runes). Rules are
// plain functions returning a value and an error; a *Mismatch error means
// "this rule does not apply here" and causes the enclosing speculative
// region to roll the cursor back. Programming errors such as consuming past
// the end of the input panic with an *InvariantError.
package parser

import (
	"github.com/tliron/commonlog"
)

// Unit is the element type of a parser's input.
type Unit interface {
	~byte | ~rune
}

type Option func(*options)

type options struct {
	file      string
	startLine int
	lines     bool
	maxDepth  int
	log       commonlog.Logger
}

func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

func WithStartLine(line int) Option {
	return func(o *options) {
		o.startLine = line
	}
}

// WithLines makes the cursor count newline units so that positions carry
// line and column numbers.
func WithLines() Option {
	return func(o *options) {
		o.lines = true
	}
}

// WithMaxDepth limits how many speculative regions may be open at once.
// Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger traces region entry and exit at debug level.
func WithLogger(log commonlog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

type Parser[T Unit] struct {
	input    []T
	state    State
	stack    []checkpoint
	serial   uint64
	opts     options
	farthest *Mismatch
}

func New[T Unit](input []T, opts ...Option) *Parser[T] {
	p := &Parser[T]{
		input: input,
		opts:  options{startLine: 1},
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	p.state.Line = p.opts.startLine
	return p
}

// File returns the name given with WithFile.
func (p *Parser[T]) File() string {
	return p.opts.file
}

// Farthest returns the mismatch recorded at the greatest offset since the
// last Run, or nil.
func (p *Parser[T]) Farthest() *Mismatch {
	return p.farthest
}

func (p *Parser[T]) tracing() bool {
	return p.opts.log != nil && p.opts.log.AllowLevel(commonlog.Debug)
}
