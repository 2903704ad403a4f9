package lexer

import (
	"bufio"
	"condexpr/pkg/token"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// LexError reports a character that cannot start any token.
type LexError struct {
	Char   rune
	Pos    int
	Line   int
	Column int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at line %d, column %d", e.Char, e.Line, e.Column)
}

type Lexer struct {
	in           *bufio.Reader
	position     int  // byte offset of ch
	readPosition int  // byte offset just past ch
	ch           rune // current char under examination
	atEOF        bool
	line         int
	column       int

	err error // sticky; once set every call returns it
}

func New(input string) *Lexer {
	return NewReader(strings.NewReader(input))
}

// NewReader builds a lexer that pulls characters from r on demand.
func NewReader(r io.Reader) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	l := &Lexer{
		in:     br,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Reset points l at r and clears all position and error state, keeping
// the read buffer.
func (l *Lexer) Reset(r io.Reader) {
	l.in.Reset(r)
	l.position = 0
	l.readPosition = 0
	l.ch = 0
	l.atEOF = false
	l.line = 1
	l.column = 0
	l.err = nil
	l.readChar()
}

func (l *Lexer) readChar() {
	if l.atEOF {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position = l.readPosition

	r, size, err := l.in.ReadRune()
	if err != nil {
		if err != io.EOF {
			l.err = fmt.Errorf("read input: %w", err)
		}
		l.ch = 0
		l.atEOF = true
		l.column++
		return
	}
	l.ch = r
	l.readPosition += size
	l.column++
}

// NextToken returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) NextToken() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	for isWhitespace(l.ch) && !l.atEOF {
		l.readChar()
	}
	if l.err != nil {
		return token.Token{}, l.err
	}

	if l.atEOF {
		return token.Token{Type: token.EOF, Literal: "", Pos: l.position, Line: l.line, Column: l.column}, nil
	}

	var tok token.Token
	switch l.ch {
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	default:
		if isLetter(l.ch) {
			tok.Pos, tok.Line, tok.Column = l.position, l.line, l.column
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			if l.err != nil {
				return token.Token{}, l.err
			}
			return tok, nil
		}
		l.err = &LexError{Char: l.ch, Pos: l.position, Line: l.line, Column: l.column}
		return token.Token{}, l.err
	}

	l.readChar()
	if l.err != nil {
		return token.Token{}, l.err
	}
	return tok, nil
}

func (l *Lexer) newToken(tokenType token.TokenType) token.Token {
	return token.Token{Type: tokenType, Literal: string(l.ch), Pos: l.position, Line: l.line, Column: l.column}
}

func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for !l.atEOF && (isLetter(l.ch) || isDigit(l.ch)) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// Tokenize drains a lexer over input, EOF token included.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}
