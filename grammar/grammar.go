// Package grammar is the registry of the built-in grammars.
package grammar

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhamidi/descent/grammar/anbncn"
	"github.com/dhamidi/descent/grammar/datafile"
	"github.com/dhamidi/descent/grammar/lisp"
	"github.com/dhamidi/descent/grammar/m3u"
	"github.com/dhamidi/descent/grammar/mckeeman"
	"github.com/dhamidi/descent/parser"
)

type Grammar struct {
	Name        string
	Description string
	Extensions  []string
	// Runes is set when positions count codepoints instead of bytes.
	Runes bool
	parse func(src []byte, opts ...parser.Option) (any, error)
}

// Parse runs the grammar over src. Invariant violations raised by the
// grammar are returned as *parser.InvariantError.
func (g Grammar) Parse(src []byte, opts ...parser.Option) (v any, err error) {
	defer parser.Recover(&err)
	return g.parse(src, opts...)
}

var registry = []Grammar{
	{
		Name:        "mckeeman",
		Description: "McKeeman Form grammar notation",
		Extensions:  []string{".mckeeman", ".mck"},
		parse: func(src []byte, opts ...parser.Option) (any, error) {
			return mckeeman.Parse(src, opts...)
		},
	},
	{
		Name:        "lisp",
		Description: "LISP 1.5 S-expressions",
		Extensions:  []string{".lisp", ".sexp"},
		Runes:       true,
		parse: func(src []byte, opts ...parser.Option) (any, error) {
			return lisp.ParseAll(src, opts...)
		},
	},
	{
		Name:        "mexpr",
		Description: "LISP 1.5 M-expression",
		Extensions:  []string{".mexpr"},
		Runes:       true,
		parse: func(src []byte, opts ...parser.Option) (any, error) {
			return lisp.ParseMExpr(src, opts...)
		},
	},
	{
		Name:        "datafile",
		Description: "indentation-structured game data files",
		Extensions:  []string{".data", ".txt"},
		parse: func(src []byte, opts ...parser.Option) (any, error) {
			return datafile.Parse(src, opts...)
		},
	},
	{
		Name:        "m3u",
		Description: "M3U and Extended M3U playlists",
		Extensions:  []string{".m3u", ".m3u8"},
		parse: func(src []byte, opts ...parser.Option) (any, error) {
			return m3u.Parse(src, opts...)
		},
	},
	{
		Name:        "anbncn",
		Description: "the language aⁿbⁿcⁿ",
		Extensions:  []string{".abc"},
		parse: func(src []byte, opts ...parser.Option) (any, error) {
			return anbncn.Recognize(src, opts...)
		},
	},
}

func All() []Grammar {
	return slices.Clone(registry)
}

func Names() []string {
	names := make([]string, len(registry))
	for i, g := range registry {
		names[i] = g.Name
	}
	return names
}

func Lookup(name string) (Grammar, bool) {
	for _, g := range registry {
		if g.Name == name {
			return g, true
		}
	}
	return Grammar{}, false
}

// ForFile picks a grammar by the extension of path.
func ForFile(path string) (Grammar, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Grammar{}, false
	}
	for _, g := range registry {
		if slices.Contains(g.Extensions, ext) {
			return g, true
		}
	}
	return Grammar{}, false
}
