package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/olekukonko/tablewriter"

	"github.com/dhamidi/descent/codepoint"
)

// TableEncoder renders decoded codepoints as a table. Other values are
// rejected.
type TableEncoder struct {
	w     io.Writer
	value any
}

func NewTableEncoder(w io.Writer) *TableEncoder {
	return &TableEncoder{w: w}
}

func (e *TableEncoder) Encode(v any) error {
	e.value = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TableEncoder) MarshalText() ([]byte, error) {
	cps, ok := e.value.([]codepoint.Codepoint)
	if !ok {
		return nil, fmt.Errorf("format: table output needs decoded codepoints, got %T", e.value)
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Offset", "Codepoint", "Bytes", "Width", "Char"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	offset := 0
	for _, c := range cps {
		table.Append([]string{
			strconv.Itoa(offset),
			c.String(),
			fmt.Sprintf("% X", c.Source),
			strconv.Itoa(c.Width()),
			display(c.Value),
		})
		offset += c.Width()
	}
	table.Render()
	return buf.Bytes(), nil
}

func display(r rune) string {
	if r > unicode.MaxRune || !unicode.IsPrint(r) {
		return ""
	}
	return string(r)
}
