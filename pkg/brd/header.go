package brd

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// sectionHeader is a block header line such as "var_data: 4 2 3 1".
type sectionHeader struct {
	Name   string `parser:"@Ident \":\""`
	Values []int  `parser:"@Int*"`
}

var headerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var headerParser = participle.MustBuild[sectionHeader](
	participle.Lexer(headerLexer),
	participle.Elide("Whitespace"),
)

// parseHeader reports whether line is a section header.
func parseHeader(line string) (*sectionHeader, bool) {
	if !strings.Contains(line, ":") {
		return nil, false
	}
	h, err := headerParser.ParseString("", line)
	if err != nil {
		return nil, false
	}
	return h, true
}
