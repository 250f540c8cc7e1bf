package lsp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/descent/grammar"
	"github.com/dhamidi/descent/grammar/mckeeman"
	"github.com/dhamidi/descent/parser"
)

// Diagnose parses src with the grammar selected by the extension of path.
// Files without a grammar get no diagnostics.
func Diagnose(path string, src []byte) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	g, ok := grammar.ForFile(path)
	if !ok {
		return diagnostics
	}

	v, err := g.Parse(src, parser.WithFile(path))
	if err != nil {
		offset, message := describe(err)
		pos := position(src, offset, g.Runes)
		diagnostics = append(diagnostics, diagnostic(pos, protocol.DiagnosticSeverityError, message))
		return diagnostics
	}

	if mg, ok := v.(*mckeeman.Grammar); ok {
		for _, cycle := range mckeeman.LeftRecursive(mg) {
			rule := mg.Rule(cycle[0])
			pos := position(src, rule.Pos.Offset, false)
			message := fmt.Sprintf("rule %s is left-recursive: %s", rule.Name, strings.Join(cycle, " → "))
			diagnostics = append(diagnostics, diagnostic(pos, protocol.DiagnosticSeverityWarning, message))
		}
	}
	return diagnostics
}

// Symbols lists the rules of a McKeeman grammar. Other files have none.
func Symbols(path string, src []byte) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	g, ok := grammar.ForFile(path)
	if !ok || g.Name != "mckeeman" {
		return symbols
	}
	v, err := g.Parse(src)
	if err != nil {
		return symbols
	}
	for _, rule := range v.(*mckeeman.Grammar).Rules {
		start := position(src, rule.Pos.Offset, false)
		end := start
		end.Character += protocol.UInteger(len(rule.Name))
		detail := fmt.Sprintf("%d alternatives", len(rule.Alternatives))
		if rule.Nothing {
			detail += ", matches nothing"
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           rule.Name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindFunction,
			Range:          protocol.Range{Start: start, End: end},
			SelectionRange: protocol.Range{Start: start, End: end},
		})
	}
	return symbols
}

func describe(err error) (int, string) {
	var inv *parser.InvariantError
	if errors.As(err, &inv) {
		return inv.Pos.Offset, "grammar defect: " + inv.Message
	}
	var m *parser.Mismatch
	if errors.As(err, &m) {
		if m.Expected == "" {
			return m.Pos.Offset, "syntax error"
		}
		return m.Pos.Offset, "expected " + m.Expected
	}
	return 0, err.Error()
}

func diagnostic(pos protocol.Position, severity protocol.DiagnosticSeverity, message string) protocol.Diagnostic {
	source := lsName
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// position converts an offset into src to a zero-based line and UTF-16
// character. runes selects whether offset counts codepoints or bytes.
func position(src []byte, offset int, runes bool) protocol.Position {
	if runes {
		offset = byteOffset(src, offset)
	}
	offset = min(max(offset, 0), len(src))
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	line := bytes.Count(src[:lineStart], []byte("\n"))
	character := 0
	for _, r := range string(src[lineStart:offset]) {
		character += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(character),
	}
}

func byteOffset(src []byte, runes int) int {
	i := 0
	for n := 0; n < runes && i < len(src); n++ {
		_, size := utf8.DecodeRune(src[i:])
		i += size
	}
	return i
}
