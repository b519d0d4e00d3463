package kicadsexp

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token with the line it started on.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes an in-memory buffer.
type Lexer struct {
	buf  []byte
	pos  int
	line int
}

// NewLexer creates a lexer over buf.
func NewLexer(buf []byte) *Lexer {
	return &Lexer{buf: buf, line: 1}
}

// NextToken returns the next token, skipping whitespace and # comments.
func (l *Lexer) NextToken() (Token, error) {
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		if c == '\n' {
			l.line++
			l.pos++
			continue
		}
		if isSpace(c) {
			l.pos++
			continue
		}
		if c == '#' {
			for l.pos < len(l.buf) && l.buf[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}
	if l.pos >= len(l.buf) {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}

	switch l.buf[l.pos] {
	case '(':
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Line: l.line}, nil
	case ')':
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Line: l.line}, nil
	case '"':
		return l.readString()
	}
	return l.readSymbol(), nil
}

func (l *Lexer) readString() (Token, error) {
	start := l.line
	l.pos++ // opening quote

	var out []byte
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		l.pos++
		switch c {
		case '"':
			return Token{Type: TokenString, Value: string(out), Line: start}, nil
		case '\n':
			l.line++
		case '\\':
			if l.pos >= len(l.buf) {
				return Token{}, fmt.Errorf("line %d: unexpected EOF after backslash", l.line)
			}
			c = l.buf[l.pos]
			l.pos++
			switch c {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			}
		}
		out = append(out, c)
	}
	return Token{}, fmt.Errorf("line %d: unterminated string", start)
}

func (l *Lexer) readSymbol() Token {
	start := l.pos
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		if isSpace(c) || c == '\n' || c == '(' || c == ')' || c == '"' {
			break
		}
		l.pos++
	}
	return Token{Type: TokenSymbol, Value: string(l.buf[start:l.pos]), Line: l.line}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}
