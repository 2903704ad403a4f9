package parser

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/lexer"
	"condexpr/pkg/token"
	"io"
)

// DefaultMaxDepth bounds how deeply conditionals and groups may nest.
const DefaultMaxDepth = 1000

// TokenSource is anything that hands out tokens one at a time.
// *lexer.Lexer is the usual implementation.
type TokenSource interface {
	NextToken() (token.Token, error)
}

type Option func(*Parser)

// WithMaxDepth sets the nesting limit. n <= 0 removes it.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// Parser is a recursive descent parser with one token of lookahead.
// It owns its token source and is good for a single Parse call.
type Parser struct {
	src TokenSource

	curToken token.Token

	maxDepth int
	depth    int
	used     bool
}

func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		src:      src,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString parses a complete expression held in memory.
func ParseString(input string, opts ...Option) (ast.Expression, error) {
	return New(lexer.New(input), opts...).Parse()
}

// ParseReader parses a complete expression streamed from r.
func ParseReader(r io.Reader, opts ...Option) (ast.Expression, error) {
	return New(lexer.NewReader(r), opts...).Parse()
}

// Parse consumes the whole token stream, EOF included, and returns the root
// expression. Lexical errors come back as *lexer.LexError; syntax errors
// implement ParseError.
func (p *Parser) Parse() (ast.Expression, error) {
	if p.used {
		return nil, ErrAlreadyParsed
	}
	p.used = true

	if err := p.nextToken(); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.curTokenIs(token.EOF) {
		return nil, &TrailingInputError{Found: p.curToken}
	}
	return expr, nil
}

func (p *Parser) nextToken() error {
	tok, err := p.src.NextToken()
	if err != nil {
		return err
	}
	p.curToken = tok
	return nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	switch p.curToken.Type {
	case token.IF:
		return p.parseConditional()
	case token.LPAREN:
		return p.parseGrouped()
	case token.IDENT:
		return p.parseIdentifier()
	default:
		return nil, p.unexpected(token.IF, token.LPAREN, token.IDENT)
	}
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return ident, nil
}

func (p *Parser) parseGrouped() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	group := &ast.Grouped{Token: p.curToken}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	group.Inner = inner

	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return group, nil
}

// parseConditional handles `if c then a else b end if`.
func (p *Parser) parseConditional() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	expression := &ast.Conditional{Token: p.curToken}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	var err error
	if expression.Condition, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	if expression.Consequence, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	if expression.Alternative, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err := p.expect(token.END); err != nil {
		return nil, err
	}
	if err := p.expect(token.IF); err != nil {
		return nil, err
	}
	return expression, nil
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// expect consumes the current token if it has type t.
func (p *Parser) expect(t token.TokenType) error {
	if !p.curTokenIs(t) {
		return p.unexpected(t)
	}
	return p.nextToken()
}

func (p *Parser) unexpected(expected ...token.TokenType) error {
	return &UnexpectedTokenError{Expected: expected, Found: p.curToken}
}

func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return &NestingError{Limit: p.maxDepth, Found: p.curToken}
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}
