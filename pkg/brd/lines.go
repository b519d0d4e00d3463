package brd

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// splitLines splits buf on CR, LF or CRLF, trims surrounding whitespace and
// drops blank lines. Every returned line is valid UTF-8.
func splitLines(buf []byte) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(buf); i++ {
		if i < len(buf) && buf[i] != '\r' && buf[i] != '\n' {
			continue
		}
		if line := strings.TrimSpace(sanitize(buf[start:i])); line != "" {
			lines = append(lines, line)
		}
		if i+1 < len(buf) && buf[i] == '\r' && buf[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	return lines
}

var latin1 = charmap.ISO8859_1.NewDecoder()

// sanitize returns b as text. Valid UTF-8 is kept as is; anything else is
// read as ISO-8859-1 so each byte maps to exactly one rune.
func sanitize(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := latin1.Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "?")
	}
	return string(out)
}

// fields is a lenient token cursor over one line. Reads past the end yield
// zero values; unparsable numbers yield the default and are still consumed.
type fields struct {
	toks []string
	pos  int
}

func newFields(s string) *fields {
	return &fields{toks: strings.Fields(s)}
}

func (f *fields) more() bool {
	return f.pos < len(f.toks)
}

func (f *fields) str() string {
	if !f.more() {
		return ""
	}
	f.pos++
	return f.toks[f.pos-1]
}

// rest returns the remaining tokens joined by single spaces.
func (f *fields) rest() string {
	if !f.more() {
		return ""
	}
	s := strings.Join(f.toks[f.pos:], " ")
	f.pos = len(f.toks)
	return s
}

func (f *fields) float() float64 {
	v, _ := parseFloat(f.str())
	return v
}

// int reads an integer, truncating a fractional token.
func (f *fields) int() int {
	return int(f.float())
}

// point reads two truncated coordinates.
func (f *fields) point() Point {
	x := f.float()
	y := f.float()
	return Point{X: int(x), Y: int(y)}
}

// points reads coordinate pairs until the line ends or a token does not
// parse.
func (f *fields) points() []Point {
	var pts []Point
	for f.pos+1 < len(f.toks) {
		x, okx := parseFloat(f.toks[f.pos])
		y, oky := parseFloat(f.toks[f.pos+1])
		if !okx || !oky {
			break
		}
		f.pos += 2
		pts = append(pts, Point{X: int(x), Y: int(y)})
	}
	return pts
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// keyword splits a line into its leading keyword and the remaining text.
func keyword(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func hasUnconnectedPrefix(name string) bool {
	return strings.HasPrefix(name, UnconnectedNet)
}
