package parser

import (
	"fmt"
)

// State is everything needed to restore the cursor.
type State struct {
	Offset    int
	Line      int
	LineStart int
}

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (p *Parser[T]) State() State {
	return p.state
}

func (p *Parser[T]) Offset() int {
	return p.state.Offset
}

func (p *Parser[T]) Line() int {
	return p.state.Line
}

// Len returns the number of unconsumed units.
func (p *Parser[T]) Len() int {
	return len(p.input) - p.state.Offset
}

func (p *Parser[T]) AtEnd() bool {
	return p.state.Offset >= len(p.input)
}

// Position reports the cursor location. Columns count units from 1.
func (p *Parser[T]) Position() Position {
	return Position{
		File:   p.opts.file,
		Offset: p.state.Offset,
		Line:   p.state.Line,
		Column: p.state.Offset - p.state.LineStart + 1,
	}
}

// Remaining returns the unconsumed input. The result must not be modified.
func (p *Parser[T]) Remaining() []T {
	n := len(p.input)
	return p.input[p.state.Offset:n:n]
}

// Consumed returns the input before the cursor.
func (p *Parser[T]) Consumed() []T {
	o := p.state.Offset
	return p.input[:o:o]
}

// Peek returns the unit i positions past the cursor. ok is false when that
// lies outside the remaining input.
func (p *Parser[T]) Peek(i int) (unit T, ok bool) {
	if i < 0 || i >= p.Len() {
		return unit, false
	}
	return p.input[p.state.Offset+i], true
}

// Slice returns remaining[start:stop] without consuming it. ok is false
// unless the whole range lies within the remaining input.
func (p *Parser[T]) Slice(start, stop int) ([]T, bool) {
	if start < 0 || stop < start || stop > p.Len() {
		return nil, false
	}
	o := p.state.Offset
	return p.input[o+start : o+stop : o+stop], true
}

// Consume advances the cursor by n units and returns them. Consuming more
// than Len units is an invariant violation.
func (p *Parser[T]) Consume(n int) []T {
	if n < 0 || n > p.Len() {
		p.Invariant("consume", "cannot consume %d units with %d remaining", n, p.Len())
	}
	start := p.state.Offset
	end := start + n
	if p.opts.lines {
		for i := start; i < end; i++ {
			if p.input[i] == '\n' {
				p.state.Line++
				p.state.LineStart = i + 1
			}
		}
	}
	p.state.Offset = end
	return p.input[start:end:end]
}

func (p *Parser[T]) StartsWith(pattern []T) bool {
	if len(pattern) > p.Len() {
		return false
	}
	for i, unit := range pattern {
		if p.input[p.state.Offset+i] != unit {
			return false
		}
	}
	return true
}

// Match consumes pattern or fails with a mismatch naming expected.
func (p *Parser[T]) Match(pattern []T, expected string) ([]T, error) {
	if !p.StartsWith(pattern) {
		return nil, p.Fail(expected)
	}
	return p.Consume(len(pattern)), nil
}

// MatchFunc consumes one unit satisfying pred.
func (p *Parser[T]) MatchFunc(pred func(T) bool, expected string) (T, error) {
	unit, ok := p.Peek(0)
	if !ok || !pred(unit) {
		var zero T
		return zero, p.Fail(expected)
	}
	p.Consume(1)
	return unit, nil
}

// TakeWhile consumes the longest prefix whose units satisfy pred. It never
// fails.
func (p *Parser[T]) TakeWhile(pred func(T) bool) []T {
	n := 0
	for {
		unit, ok := p.Peek(n)
		if !ok || !pred(unit) {
			break
		}
		n++
	}
	return p.Consume(n)
}

func (p *Parser[T]) End() error {
	if !p.AtEnd() {
		return p.Fail("end of input")
	}
	return nil
}
