package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/descent/parser"
)

func TestPeekOutOfRange(t *testing.T) {
	p := parser.New([]byte("ab"))

	tests := []struct {
		i      int
		want   byte
		wantOK bool
	}{
		{0, 'a', true},
		{1, 'b', true},
		{2, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := p.Peek(tt.i)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Peek(%d) = %q, %v, want %q, %v", tt.i, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSlice(t *testing.T) {
	p := parser.New([]byte("hello"))
	p.Consume(1)

	got, ok := p.Slice(0, 4)
	if !ok || string(got) != "ello" {
		t.Errorf("Slice(0, 4) = %q, %v, want %q, true", got, ok, "ello")
	}
	if _, ok := p.Slice(0, 5); ok {
		t.Error("Slice(0, 5) past the end should not be ok")
	}
	if _, ok := p.Slice(3, 2); ok {
		t.Error("Slice(3, 2) should not be ok")
	}
	if p.Offset() != 1 {
		t.Errorf("Slice consumed input: offset = %d, want 1", p.Offset())
	}
}

func TestConsumeReturnsUnits(t *testing.T) {
	p := parser.New([]rune("héllo"))
	got := p.Consume(2)
	if string(got) != "hé" {
		t.Errorf("Consume(2) = %q, want %q", string(got), "hé")
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
	if string(p.Remaining()) != "llo" {
		t.Errorf("Remaining() = %q, want %q", string(p.Remaining()), "llo")
	}
	if string(p.Consumed()) != "hé" {
		t.Errorf("Consumed() = %q, want %q", string(p.Consumed()), "hé")
	}
}

func TestConsumePastEndPanics(t *testing.T) {
	p := parser.New([]byte("ab"))
	err := catch(func() { p.Consume(3) })

	var inv *parser.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("Consume(3) raised %v, want *InvariantError", err)
	}
	if inv.Op != "consume" {
		t.Errorf("Op = %q, want %q", inv.Op, "consume")
	}
	if p.Offset() != 0 {
		t.Errorf("offset = %d after failed consume, want 0", p.Offset())
	}
}

func TestStartsWith(t *testing.T) {
	p := parser.New([]byte("abc"))
	tests := []struct {
		pattern string
		want    bool
	}{
		{"", true},
		{"a", true},
		{"abc", true},
		{"abcd", false},
		{"b", false},
	}
	for _, tt := range tests {
		if got := p.StartsWith([]byte(tt.pattern)); got != tt.want {
			t.Errorf("StartsWith(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

func TestLineTracking(t *testing.T) {
	p := parser.New([]byte("ab\ncd\n\nef"), parser.WithLines(), parser.WithFile("x.txt"))
	p.Consume(4)

	want := parser.Position{File: "x.txt", Offset: 4, Line: 2, Column: 2}
	if diff := cmp.Diff(want, p.Position()); diff != "" {
		t.Errorf("Position() mismatch (-want +got):\n%s", diff)
	}

	p.Consume(3)
	if p.Line() != 4 {
		t.Errorf("Line() = %d, want 4", p.Line())
	}
	if got := p.Position().String(); got != "x.txt:4:1" {
		t.Errorf("Position().String() = %q, want %q", got, "x.txt:4:1")
	}
}

func TestLinesNotCountedByDefault(t *testing.T) {
	p := parser.New([]byte("a\nb"), parser.WithStartLine(10))
	p.Consume(3)
	if p.Line() != 10 {
		t.Errorf("Line() = %d, want 10", p.Line())
	}
	if p.Position().Column != 4 {
		t.Errorf("Column = %d, want 4", p.Position().Column)
	}
}

func TestLeafHelpers(t *testing.T) {
	p := parser.New([]byte("let x1 = 42"))

	if _, err := p.Match([]byte("let"), `"let"`); err != nil {
		t.Fatalf("Match(let): %v", err)
	}
	if _, err := p.Match([]byte("var"), `"var"`); !parser.IsMismatch(err) {
		t.Fatalf("Match(var) = %v, want mismatch", err)
	}
	space := func(b byte) bool { return b == ' ' }
	if got := p.TakeWhile(space); string(got) != " " {
		t.Errorf("TakeWhile(space) = %q", got)
	}
	if got := p.TakeWhile(space); len(got) != 0 {
		t.Errorf("TakeWhile on non-matching input = %q, want empty", got)
	}
	letter := func(b byte) bool { return b >= 'a' && b <= 'z' }
	if b, err := p.MatchFunc(letter, "letter"); err != nil || b != 'x' {
		t.Errorf("MatchFunc(letter) = %q, %v", b, err)
	}
	if _, err := p.MatchFunc(letter, "letter"); !parser.IsMismatch(err) {
		t.Errorf("MatchFunc(letter) on digit = %v, want mismatch", err)
	}
	if err := p.End(); !parser.IsMismatch(err) {
		t.Errorf("End() = %v, want mismatch", err)
	}
	p.Consume(p.Len())
	if err := p.End(); err != nil {
		t.Errorf("End() at end = %v", err)
	}
}

func TestMismatchError(t *testing.T) {
	p := parser.New([]byte("x"), parser.WithFile("in"))
	err := p.Fail("digit")

	if got, want := err.Error(), "in:1:1: expected digit"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, parser.ErrMismatch) {
		t.Error("errors.Is(err, ErrMismatch) = false")
	}
}

// catch runs f and returns the *InvariantError it panics with, if any.
func catch(f func()) (err error) {
	defer parser.Recover(&err)
	f()
	return nil
}
