// Package m3u parses M3U playlists, including the Extended M3U comments
// that carry track length and title.
//
// Every line is either blank, a comment starting with '#', or the address
// of a resource. A playlist whose first comment is #EXTM3U is extended: an
// #EXTINF comment then describes the resource on the next non-blank line.
package m3u

import (
	"strconv"
	"strings"

	"github.com/dhamidi/descent/parser"
)

const (
	ExtM3U = "#EXTM3U"
	ExtInf = "#EXTINF:"
)

type Playlist struct {
	// Header is ExtM3U for extended playlists and empty otherwise.
	Header  string
	Entries []Entry
}

func (*Playlist) Kind() string { return "Playlist" }

func (p *Playlist) Extended() bool {
	return p.Header == ExtM3U
}

type Entry struct {
	Address string
	// Info is the raw #EXTINF line that described the entry, if any.
	Info string
	// Seconds is the track length, or -1 when unknown.
	Seconds float64
	Title   string
}

// Parse reads a playlist. Any input is a valid playlist.
func Parse(src []byte, opts ...parser.Option) (*Playlist, error) {
	p := parser.New(src, append([]parser.Option{parser.WithLines()}, opts...)...)
	return parser.Run(p, func() (*Playlist, error) {
		pl := Read(p)
		return pl, p.End()
	})
}

// Read consumes lines from p until the end of input.
func Read(p *parser.Parser[byte]) *Playlist {
	pl := &Playlist{}
	headerSeen := false
	info := ""
	for {
		line := strings.TrimSuffix(string(p.TakeWhile(func(b byte) bool { return b != '\n' })), "\r")
		switch {
		case strings.TrimSpace(line) == "":
		case line[0] == '#':
			if !headerSeen {
				headerSeen = true
				if strings.TrimSpace(line) == ExtM3U {
					pl.Header = ExtM3U
				}
			}
			if pl.Extended() && strings.HasPrefix(line, ExtInf) {
				info = line
			} else {
				info = ""
			}
		default:
			pl.Entries = append(pl.Entries, newEntry(line, info))
			info = ""
		}
		if _, err := p.Match([]byte("\n"), "newline"); err != nil {
			return pl
		}
	}
}

func newEntry(address, info string) Entry {
	e := Entry{Address: address, Info: info, Seconds: -1}
	if info == "" {
		return e
	}
	length, title, _ := strings.Cut(strings.TrimPrefix(info, ExtInf), ",")
	if s, err := strconv.ParseFloat(strings.TrimSpace(length), 64); err == nil && s >= 0 {
		e.Seconds = s
	}
	e.Title = strings.TrimSpace(title)
	return e
}
