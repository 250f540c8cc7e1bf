// Package format renders parse results as JSON, YAML, indented text or,
// for decoded codepoints, a table.
package format

import (
	"encoding"
	"fmt"
	"io"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(v any) error
}

// Names lists the formats accepted by New.
func Names() []string {
	return []string{"text", "json", "yaml", "table"}
}

func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "table":
		return NewTableEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json, yaml, table)", name)
	}
}
