package lsp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDiagnoseClean(t *testing.T) {
	tests := []struct {
		path string
		src  string
	}{
		{"list.m3u", "#EXTM3U\n#EXTINF:3,Song\nsong.mp3\n"},
		{"digits.mckeeman", "digit\n    '0' . '9'\n"},
		{"notes.md", "anything goes"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Diagnose(tt.path, []byte(tt.src))
			if got == nil || len(got) != 0 {
				t.Errorf("Diagnose(%q) = %#v, want empty non-nil slice", tt.path, got)
			}
		})
	}
}

func TestDiagnoseMismatch(t *testing.T) {
	got := Diagnose("broken.mckeeman", []byte("x\n    'a' \n"))
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	d := got[0]
	want := protocol.Position{Line: 1, Character: 8}
	if diff := cmp.Diff(want, d.Range.Start); diff != "" {
		t.Errorf("start (-want +got):\n%s", diff)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	if d.Source == nil || *d.Source != "descent" {
		t.Errorf("source = %v, want descent", d.Source)
	}
}

func TestDiagnoseInvalidUTF8InRuneGrammar(t *testing.T) {
	got := Diagnose("bad.lisp", []byte("(é \xff)"))
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	want := protocol.Position{Line: 0, Character: 3}
	if diff := cmp.Diff(want, got[0].Range.Start); diff != "" {
		t.Errorf("start (-want +got):\n%s", diff)
	}
}

func TestDiagnoseLeftRecursion(t *testing.T) {
	got := Diagnose("loop.mck", []byte("S\n    S 'a'\n    'b'\n"))
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	d := got[0]
	if *d.Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("severity = %v, want warning", *d.Severity)
	}
	if !strings.Contains(d.Message, "S → S") {
		t.Errorf("message = %q, want the cycle", d.Message)
	}
	if d.Range.Start != (protocol.Position{}) {
		t.Errorf("start = %+v, want 0:0", d.Range.Start)
	}
}

func TestPosition(t *testing.T) {
	src := []byte("é\n€😀x")
	tests := []struct {
		name   string
		offset int
		runes  bool
		want   protocol.Position
	}{
		{"start", 0, false, protocol.Position{}},
		{"bytes after newline", 3, false, protocol.Position{Line: 1}},
		{"bytes within line", 6, false, protocol.Position{Line: 1, Character: 1}},
		{"runes with surrogate pair", 4, true, protocol.Position{Line: 1, Character: 3}},
		{"past the end", 100, false, protocol.Position{Line: 1, Character: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := position(src, tt.offset, tt.runes)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("position mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSymbols(t *testing.T) {
	src := "a\n    'a'\n\nb\n    \"\"\n    'b'\n"
	got := Symbols("g.mckeeman", []byte(src))
	if len(got) != 2 {
		t.Fatalf("got %d symbols, want 2", len(got))
	}
	if got[0].Name != "a" || got[0].Range.Start.Line != 0 {
		t.Errorf("first symbol = %s at %+v", got[0].Name, got[0].Range.Start)
	}
	if got[1].Name != "b" || got[1].Range.Start.Line != 3 {
		t.Errorf("second symbol = %s at %+v", got[1].Name, got[1].Range.Start)
	}
	if got[1].Detail == nil || *got[1].Detail != "1 alternatives, matches nothing" {
		t.Errorf("detail = %v", got[1].Detail)
	}

	if got := Symbols("list.m3u", []byte("a.mp3\n")); len(got) != 0 {
		t.Errorf("m3u symbols = %v, want none", got)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///tmp/a%20b.mck", "/tmp/a b.mck"},
		{"untitled:Untitled-1", "untitled:Untitled-1"},
	}
	for _, tt := range tests {
		if got := uriToPath(tt.uri); got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
