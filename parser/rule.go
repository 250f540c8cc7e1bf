package parser

import (
	"errors"
)

// Speculate runs rule inside a region. A mismatch rolls the cursor back and
// is returned. Any other error is treated as a programming error and raised
// as an *InvariantError panic.
func Speculate[T Unit, V any](p *Parser[T], rule func() (V, error)) (V, error) {
	r := p.Enter()
	done := false
	defer func() {
		if !done && r.open() {
			r.Exit(false)
		}
	}()

	v, err := rule()
	done = true
	if err == nil {
		r.Exit(true)
		return v, nil
	}
	r.Exit(false)
	if !IsMismatch(err) {
		panic(&InvariantError{
			Op:      "rule",
			Message: "rule returned an error that is not a mismatch",
			Pos:     p.Position(),
			Caller:  callerOutside(),
			Err:     err,
		})
	}
	var zero V
	return zero, err
}

// Region runs block inside a speculative region.
func (p *Parser[T]) Region(block func() error) error {
	_, err := Speculate(p, func() (struct{}, error) {
		return struct{}{}, block()
	})
	return err
}

// Attempt is the "maybe" form of Speculate: a mismatch yields ok == false
// with the cursor unchanged.
func Attempt[T Unit, V any](p *Parser[T], rule func() (V, error)) (V, bool) {
	v, err := Speculate(p, rule)
	return v, err == nil
}

// Choice tries each alternative in order and returns the first that
// matches.
func Choice[T Unit, V any](p *Parser[T], expected string, alts ...func() (V, error)) (V, error) {
	for _, alt := range alts {
		if v, ok := Attempt(p, alt); ok {
			return v, nil
		}
	}
	var zero V
	return zero, p.Fail(expected)
}

// Many applies item until it fails. An iteration that succeeds without
// consuming input ends the loop and is not collected.
func Many[T Unit, V any](p *Parser[T], item func() (V, error)) []V {
	var items []V
	for {
		start := p.state.Offset
		v, ok := Attempt(p, item)
		if !ok || p.state.Offset == start {
			return items
		}
		items = append(items, v)
	}
}

func Many1[T Unit, V any](p *Parser[T], item func() (V, error)) ([]V, error) {
	first, err := Speculate(p, item)
	if err != nil {
		return nil, err
	}
	return append([]V{first}, Many(p, item)...), nil
}

// Optional returns the item's value, or the zero value when it does not
// match.
func Optional[T Unit, V any](p *Parser[T], item func() (V, error)) V {
	v, _ := Attempt(p, item)
	return v
}

// Run applies a top-level rule. On failure the cursor is back at its
// starting point and the reported mismatch is the one that got farthest
// into the input.
func Run[T Unit, V any](p *Parser[T], rule func() (V, error)) (V, error) {
	if len(p.stack) != 0 {
		p.Invariant("run", "%d speculative regions still open", len(p.stack))
	}
	p.farthest = nil
	v, err := Speculate(p, rule)
	if err == nil {
		return v, nil
	}
	var m *Mismatch
	if errors.As(err, &m) && p.farthest != nil && p.farthest.Pos.Offset > m.Pos.Offset {
		return v, p.farthest
	}
	return v, err
}
