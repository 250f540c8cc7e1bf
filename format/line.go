package format

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// LineEncoder writes one line per node, indented by depth:
//
//	Rule	S	line=2
//	  Alternative
//	    Codepoint	'1'	codepoint=U+0031
type LineEncoder struct {
	w     io.Writer
	value any
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(v any) error {
	e.value = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	tree, err := Tree(e.value)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	writeLines(&sb, tree, 0)
	return []byte(sb.String()), nil
}

func writeLines(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind)
	if n.Value != "" {
		fmt.Fprintf(sb, "\t%s", quoteIfNeeded(n.Value))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "\t%s=%s", k, quoteIfNeeded(n.Attrs[k]))
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		writeLines(sb, c, depth+1)
	}
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, "\t\n\r") || s != strings.TrimSpace(s) {
		return strconv.Quote(s)
	}
	return s
}
