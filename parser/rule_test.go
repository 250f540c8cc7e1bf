package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/descent/parser"
)

func digit(p *parser.Parser[byte]) func() (byte, error) {
	return func() (byte, error) {
		return p.MatchFunc(func(b byte) bool { return b >= '0' && b <= '9' }, "digit")
	}
}

func literal(p *parser.Parser[byte], s string) func() (string, error) {
	return func() (string, error) {
		got, err := p.Match([]byte(s), fmt.Sprintf("%q", s))
		return string(got), err
	}
}

func TestRegionRollback(t *testing.T) {
	p := parser.New([]byte("ab\ncd"), parser.WithLines())
	p.Consume(1)
	before := p.State()

	r := p.Enter()
	p.Consume(3)
	r.Exit(false)

	if diff := cmp.Diff(before, p.State()); diff != "" {
		t.Errorf("state after rollback (-want +got):\n%s", diff)
	}
	if p.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", p.Depth())
	}
}

func TestRegionCommit(t *testing.T) {
	p := parser.New([]byte("abcd"))

	outer := p.Enter()
	p.Consume(1)
	inner := p.Enter()
	p.Consume(2)
	inner.Exit(true)
	if p.Offset() != 3 {
		t.Fatalf("offset after inner commit = %d, want 3", p.Offset())
	}
	outer.Exit(false)
	if p.Offset() != 0 {
		t.Errorf("outer rollback should discard committed inner consumption, offset = %d", p.Offset())
	}
}

func TestRegionMisuse(t *testing.T) {
	tests := []struct {
		name string
		f    func(p *parser.Parser[byte])
	}{
		{"exit twice", func(p *parser.Parser[byte]) {
			r := p.Enter()
			r.Exit(true)
			r.Exit(true)
		}},
		{"exit out of order", func(p *parser.Parser[byte]) {
			outer := p.Enter()
			p.Enter()
			outer.Exit(true)
		}},
		{"zero region", func(p *parser.Parser[byte]) {
			var r parser.Region[byte]
			r.Exit(false)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.New([]byte("abc"))
			err := catch(func() { tt.f(p) })
			var inv *parser.InvariantError
			if !errors.As(err, &inv) {
				t.Fatalf("got %v, want *InvariantError", err)
			}
			if inv.Op != "exit" {
				t.Errorf("Op = %q, want exit", inv.Op)
			}
		})
	}
}

func TestStaleRegionAtReusedDepth(t *testing.T) {
	p := parser.New([]byte("abcd"))
	outer := p.Enter()
	inner := p.Enter()
	inner.Exit(true)

	other := p.Enter()
	p.Consume(2)

	err := catch(func() { inner.Exit(false) })
	var inv *parser.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("stale exit: got %v, want *InvariantError", err)
	}
	if inv.Op != "exit" {
		t.Errorf("Op = %q, want exit", inv.Op)
	}
	if got := p.Offset(); got != 2 {
		t.Errorf("offset after stale exit = %d, want 2", got)
	}
	if got := p.Depth(); got != 2 {
		t.Errorf("depth after stale exit = %d, want 2", got)
	}

	if err := catch(func() { other.Exit(true) }); err != nil {
		t.Fatalf("owner exit: %v", err)
	}
	outer.Exit(true)
	if got := p.Offset(); got != 2 {
		t.Errorf("offset = %d, want 2", got)
	}
}

func TestInvariantCallerIsGrammarRule(t *testing.T) {
	p := parser.New([]byte("a"))
	err := catch(func() { p.Consume(2) })

	var inv *parser.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want *InvariantError", err)
	}
	if !strings.Contains(inv.Caller, "parser_test.") {
		t.Errorf("Caller = %q, want a frame in the test package", inv.Caller)
	}
}

func TestMaxDepth(t *testing.T) {
	p := parser.New([]byte("((((x))))"), parser.WithMaxDepth(3))

	var nested func() (int, error)
	nested = func() (int, error) {
		if _, err := p.Match([]byte("("), "("); err != nil {
			return 0, err
		}
		n, err := parser.Speculate(p, nested)
		return n + 1, err
	}
	err := catch(func() { parser.Speculate(p, nested) })

	var inv *parser.InvariantError
	if !errors.As(err, &inv) || inv.Op != "enter" {
		t.Fatalf("got %v, want depth limit invariant", err)
	}
}

func TestSpeculateMismatchRollsBack(t *testing.T) {
	p := parser.New([]byte("12x"))
	_, err := parser.Speculate(p, func() (int, error) {
		p.Consume(2)
		return 0, p.Fail("digit")
	})
	if !parser.IsMismatch(err) {
		t.Fatalf("Speculate = %v, want mismatch", err)
	}
	if p.Offset() != 0 {
		t.Errorf("offset = %d, want 0", p.Offset())
	}
}

func TestSpeculateNonMismatchPanics(t *testing.T) {
	p := parser.New([]byte("abc"))
	boom := errors.New("boom")
	err := catch(func() {
		parser.Speculate(p, func() (int, error) {
			p.Consume(1)
			return 0, boom
		})
	})

	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped boom", err)
	}
	if parser.IsMismatch(err) {
		t.Error("invariant error must not be a mismatch")
	}
	if p.Depth() != 0 || p.Offset() != 0 {
		t.Errorf("depth = %d, offset = %d, want 0, 0", p.Depth(), p.Offset())
	}
}

func TestPanicInsideRegionUnwindsStack(t *testing.T) {
	p := parser.New([]byte("abc"))
	err := catch(func() {
		parser.Speculate(p, func() (int, error) {
			return parser.Speculate(p, func() (int, error) {
				p.Consume(1)
				p.Consume(5)
				return 0, nil
			})
		})
	})
	if err == nil {
		t.Fatal("expected invariant error")
	}
	if p.Depth() != 0 {
		t.Errorf("Depth() = %d after panic, want 0", p.Depth())
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d after panic, want 0", p.Offset())
	}
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "other" {
			t.Errorf("recovered %v, want %q", r, "other")
		}
	}()
	catch(func() { panic("other") })
	t.Error("panic was swallowed")
}

func TestAttempt(t *testing.T) {
	p := parser.New([]byte("ab"))

	if _, ok := parser.Attempt(p, literal(p, "b")); ok {
		t.Error("Attempt(b) succeeded on \"ab\"")
	}
	if p.Offset() != 0 {
		t.Fatalf("offset = %d after failed attempt", p.Offset())
	}
	got, ok := parser.Attempt(p, literal(p, "a"))
	if !ok || got != "a" || p.Offset() != 1 {
		t.Errorf("Attempt(a) = %q, %v, offset %d", got, ok, p.Offset())
	}
}

func TestChoiceIsOrdered(t *testing.T) {
	p := parser.New([]byte("abc"))
	got, err := parser.Choice(p, "prefix",
		literal(p, "x"),
		literal(p, "ab"),
		literal(p, "abc"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ab" {
		t.Errorf("Choice = %q, want the first matching alternative %q", got, "ab")
	}
	if p.Offset() != 2 {
		t.Errorf("offset = %d, want 2", p.Offset())
	}
}

func TestChoiceNoAlternative(t *testing.T) {
	p := parser.New([]byte("z"))
	_, err := parser.Choice(p, "a or b", literal(p, "a"), literal(p, "b"))

	var m *parser.Mismatch
	if !errors.As(err, &m) {
		t.Fatalf("got %v, want mismatch", err)
	}
	if m.Expected != "a or b" {
		t.Errorf("Expected = %q", m.Expected)
	}
}

func TestMany(t *testing.T) {
	p := parser.New([]byte("123x"))
	got := parser.Many(p, digit(p))
	if string(got) != "123" {
		t.Errorf("Many(digit) = %q, want %q", got, "123")
	}
	if p.Offset() != 3 {
		t.Errorf("offset = %d, want 3", p.Offset())
	}
}

func TestManyStopsOnZeroWidth(t *testing.T) {
	p := parser.New([]byte("aaa"))
	calls := 0
	got := parser.Many(p, func() (string, error) {
		calls++
		return "", nil
	})
	if len(got) != 0 {
		t.Errorf("Many collected %d zero-width items", len(got))
	}
	if calls != 1 {
		t.Errorf("item called %d times, want 1", calls)
	}
}

func TestMany1(t *testing.T) {
	p := parser.New([]byte("x"))
	if _, err := parser.Many1(p, digit(p)); !parser.IsMismatch(err) {
		t.Errorf("Many1 on non-digit = %v, want mismatch", err)
	}
	p = parser.New([]byte("7"))
	got, err := parser.Many1(p, digit(p))
	if err != nil || string(got) != "7" {
		t.Errorf("Many1 = %q, %v", got, err)
	}
}

func TestOptional(t *testing.T) {
	p := parser.New([]byte("-5"))
	sign := parser.Optional(p, literal(p, "-"))
	d, err := digit(p)()
	if sign != "-" || d != '5' || err != nil {
		t.Errorf("got %q %q %v", sign, d, err)
	}
}

func TestRunReportsFarthestMismatch(t *testing.T) {
	p := parser.New([]byte("let x = ;"))
	statement := func() (string, error) {
		return parser.Choice(p, "statement",
			func() (string, error) {
				for _, s := range []string{"let x = ", "1"} {
					if _, err := literal(p, s)(); err != nil {
						return "", err
					}
				}
				return "let", nil
			},
			literal(p, "return"),
		)
	}

	_, err := parser.Run(p, statement)
	var m *parser.Mismatch
	if !errors.As(err, &m) {
		t.Fatalf("got %v, want mismatch", err)
	}
	if m.Pos.Offset != 8 || m.Expected != `"1"` {
		t.Errorf("mismatch = %v, want offset 8 expecting \"1\"", m)
	}
	if p.Offset() != 0 {
		t.Errorf("offset after failed Run = %d, want 0", p.Offset())
	}
}

func TestRunRejectsOpenRegions(t *testing.T) {
	p := parser.New([]byte("a"))
	p.Enter()
	err := catch(func() {
		parser.Run(p, literal(p, "a"))
	})
	var inv *parser.InvariantError
	if !errors.As(err, &inv) || inv.Op != "run" {
		t.Errorf("got %v, want run invariant", err)
	}
}

// Consumption never moves backwards across committed rules, and a rolled
// back attempt restores exactly the state that was saved.
func TestConsumptionMonotonic(t *testing.T) {
	input := []byte("1a22b333c")
	p := parser.New(input)
	last := p.Offset()
	for !p.AtEnd() {
		before := p.State()
		if _, ok := parser.Attempt(p, func() ([]byte, error) {
			return parser.Many1(p, digit(p))
		}); !ok {
			if diff := cmp.Diff(before, p.State()); diff != "" {
				t.Fatalf("failed attempt changed state (-want +got):\n%s", diff)
			}
			p.Consume(1)
		}
		if p.Offset() < last {
			t.Fatalf("offset went from %d to %d", last, p.Offset())
		}
		last = p.Offset()
	}
}
