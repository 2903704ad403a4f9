package token

import "fmt"

type TokenType string

const (
	// Special
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers
	IDENT = "IDENT"

	// Delimiters
	LPAREN = "("
	RPAREN = ")"

	// Keywords
	IF   = "IF"
	THEN = "THEN"
	ELSE = "ELSE"
	END  = "END"
)

type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset of the first character, 0-based
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d:%d)", t.Type, t.Literal, t.Line, t.Column)
}

// Describe renders the token the way diagnostics quote it.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Literal)
	}
}

var keywords = map[string]TokenType{
	"if":   IF,
	"then": THEN,
	"else": ELSE,
	"end":  END,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is one of the reserved words.
func IsKeyword(t TokenType) bool {
	switch t {
	case IF, THEN, ELSE, END:
		return true
	}
	return false
}
