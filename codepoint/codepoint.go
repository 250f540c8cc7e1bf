// Package codepoint decodes UTF-8 byte sequences into Unicode codepoints
// as rules on a byte parser.
//
// The decoder accepts the six lead-byte classes of RFC 2279: a lead byte
// announces between zero and five continuation bytes. Overlong encodings
// and surrogate values are accepted as long as the byte structure is
// well-formed.
package codepoint

import (
	"fmt"
	"iter"

	"github.com/dhamidi/descent/parser"
)

// MaxWidth is the longest byte sequence a single codepoint can occupy.
const MaxWidth = 6

const (
	continuationMask    = 0xC0
	continuationPrefix  = 0x80
	continuationPayload = 0x3F
	continuationBits    = 6
)

type leadClass struct {
	mask, prefix  byte
	continuations int
}

var leadClasses = [...]leadClass{
	{0x80, 0x00, 0},
	{0xE0, 0xC0, 1},
	{0xF0, 0xE0, 2},
	{0xF8, 0xF0, 3},
	{0xFC, 0xF8, 4},
	{0xFE, 0xFC, 5},
}

// Codepoint is a decoded value together with the bytes it was decoded
// from.
type Codepoint struct {
	Value  rune
	Source []byte
}

func (c Codepoint) Width() int {
	return len(c.Source)
}

func (c Codepoint) String() string {
	return fmt.Sprintf("U+%04X", c.Value)
}

// ContinuationBytes reports how many continuation bytes follow lead, and
// whether lead starts a sequence at all.
func ContinuationBytes(lead byte) (int, bool) {
	for _, class := range leadClasses {
		if lead&class.mask == class.prefix {
			return class.continuations, true
		}
	}
	return 0, false
}

func isContinuation(b byte) bool {
	return b&continuationMask == continuationPrefix
}

// Decode consumes one codepoint. On a mismatch nothing is consumed.
func Decode(p *parser.Parser[byte]) (Codepoint, error) {
	return parser.Speculate(p, func() (Codepoint, error) {
		return decode(p)
	})
}

// DecodeRange consumes one codepoint whose value lies in [low, high].
func DecodeRange(p *parser.Parser[byte], low, high rune) (Codepoint, error) {
	if low > high {
		p.Invariant("decode range", "empty range U+%04X..U+%04X", low, high)
	}
	return parser.Speculate(p, func() (Codepoint, error) {
		value, width, err := scan(p)
		if err != nil {
			return Codepoint{}, err
		}
		if value < low || value > high {
			return Codepoint{}, p.Failf("codepoint in U+%04X..U+%04X, found U+%04X", low, high, value)
		}
		return Codepoint{Value: value, Source: p.Consume(width)}, nil
	})
}

func decode(p *parser.Parser[byte]) (Codepoint, error) {
	value, width, err := scan(p)
	if err != nil {
		return Codepoint{}, err
	}
	return Codepoint{Value: value, Source: p.Consume(width)}, nil
}

// scan decodes the sequence at the cursor without consuming it.
func scan(p *parser.Parser[byte]) (rune, int, error) {
	lead, ok := p.Peek(0)
	if !ok {
		return 0, 0, p.Fail("UTF-8 sequence")
	}
	n, ok := ContinuationBytes(lead)
	if !ok {
		return 0, 0, p.Failf("UTF-8 lead byte, found 0x%02X", lead)
	}
	value := rune(lead &^ leadClasses[n].mask)
	for i := 1; i <= n; i++ {
		b, ok := p.Peek(i)
		if !ok {
			return 0, 0, p.Failf("%d continuation bytes after 0x%02X, input ends after %d", n, lead, i-1)
		}
		if !isContinuation(b) {
			return 0, 0, p.Failf("continuation byte at +%d, found 0x%02X", i, b)
		}
		value = value<<continuationBits | rune(b&continuationPayload)
	}
	return value, n + 1, nil
}

// Decoder yields codepoints from a buffer until the first byte sequence
// that does not decode.
type Decoder struct {
	p   *parser.Parser[byte]
	err error
}

func NewDecoder(buf []byte, opts ...parser.Option) *Decoder {
	return &Decoder{p: parser.New(buf, opts...)}
}

func (d *Decoder) Next() (Codepoint, bool) {
	if d.err != nil || d.p.AtEnd() {
		return Codepoint{}, false
	}
	c, err := Decode(d.p)
	if err != nil {
		d.err = err
		return Codepoint{}, false
	}
	return c, true
}

func (d *Decoder) All() iter.Seq[Codepoint] {
	return func(yield func(Codepoint) bool) {
		for {
			c, ok := d.Next()
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// Offset is the byte offset of the next undecoded byte.
func (d *Decoder) Offset() int {
	return d.p.Offset()
}

// Rest returns the bytes that have not been decoded.
func (d *Decoder) Rest() []byte {
	return d.p.Remaining()
}

// Err returns the mismatch that stopped decoding, or nil if the input was
// decoded to its end.
func (d *Decoder) Err() error {
	return d.err
}

// Runes decodes all of buf.
func Runes(buf []byte, opts ...parser.Option) ([]rune, error) {
	d := NewDecoder(buf, opts...)
	var out []rune
	for c := range d.All() {
		out = append(out, c.Value)
	}
	return out, d.Err()
}
