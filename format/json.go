package format

import (
	"encoding/json"
	"io"
)

type JSONEncoder struct {
	w     io.Writer
	value any
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(v any) error {
	e.value = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	tree, err := Tree(e.value)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}
