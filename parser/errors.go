package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrMismatch matches every *Mismatch under errors.Is.
var ErrMismatch = errors.New("no match")

// Mismatch is the recoverable failure of a rule at a position.
type Mismatch struct {
	Pos      Position
	Expected string
}

func (m *Mismatch) Error() string {
	if m.Expected == "" {
		return fmt.Sprintf("%s: no match", m.Pos)
	}
	return fmt.Sprintf("%s: expected %s", m.Pos, m.Expected)
}

func (m *Mismatch) Is(target error) bool {
	return target == ErrMismatch
}

func IsMismatch(err error) bool {
	return errors.Is(err, ErrMismatch)
}

// InvariantError reports misuse of the parser by a grammar. It is raised
// with panic and never caught by speculative regions.
type InvariantError struct {
	Op      string
	Message string
	Pos     Position
	Caller  string
	Err     error
}

func (e *InvariantError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", e.Pos, e.Op, e.Message)
	if e.Caller != "" {
		fmt.Fprintf(&b, " (called from %s)", e.Caller)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// Fail records and returns a mismatch at the cursor.
func (p *Parser[T]) Fail(expected string) error {
	m := &Mismatch{Pos: p.Position(), Expected: expected}
	if p.farthest == nil || m.Pos.Offset > p.farthest.Pos.Offset {
		p.farthest = m
	}
	return m
}

func (p *Parser[T]) Failf(format string, args ...any) error {
	return p.Fail(fmt.Sprintf(format, args...))
}

// Invariant panics with an *InvariantError at the cursor.
func (p *Parser[T]) Invariant(op, format string, args ...any) {
	panic(&InvariantError{
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Pos:     p.Position(),
		Caller:  callerOutside(),
	})
}

// Recover turns an *InvariantError panic into an error stored in *errp.
// Other panics are re-raised. It must be called directly by defer.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*InvariantError); ok {
		*errp = e
		return
	}
	panic(r)
}

const packagePrefix = "github.com/dhamidi/descent/parser."

// callerOutside names the innermost stack frame that does not belong to
// this package, which is the grammar rule that misused the parser.
func callerOutside() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, packagePrefix) {
			return fmt.Sprintf("%s (%s:%d)", frame.Function, filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}
