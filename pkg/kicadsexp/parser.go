package kicadsexp

import "fmt"

// Parser builds expressions from a Lexer.
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a parser over buf.
func NewParser(buf []byte) *Parser {
	return &Parser{lexer: NewLexer(buf)}
}

// Parse parses every top-level expression in buf.
func Parse(buf []byte) ([]Sexp, error) {
	return NewParser(buf).ParseAll()
}

// ParseString is Parse for a string.
func ParseString(s string) ([]Sexp, error) {
	return Parse([]byte(s))
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.Type == TokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *Parser) parseExpr() (Sexp, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()
	case TokenSymbol:
		return &Atom{Value: p.current.Value}, nil
	case TokenString:
		return &Atom{Value: p.current.Value, Quoted: true}, nil
	}
	return nil, fmt.Errorf("line %d: unexpected %v", p.current.Line, p.current.Type)
}

func (p *Parser) parseList() (Sexp, error) {
	open := p.current.Line
	list := &List{}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.current.Type {
		case TokenRightParen:
			return list, nil
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unexpected EOF in list", open)
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, elem)
	}
}
