package parser

import (
	"condexpr/pkg/token"
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyParsed is returned when Parse is called twice on one Parser.
var ErrAlreadyParsed = errors.New("parser: Parse already called")

// ParseError is implemented by every syntax error the parser reports.
type ParseError interface {
	error
	At() token.Token
}

// UnexpectedTokenError means the current token fits no grammar alternative.
type UnexpectedTokenError struct {
	Expected []token.TokenType
	Found    token.Token
}

func (e *UnexpectedTokenError) At() token.Token { return e.Found }

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected %s, found %s at line %d, column %d",
		describeKinds(e.Expected), e.Found.Describe(), e.Found.Line, e.Found.Column)
}

// TrailingInputError means a complete expression was followed by more tokens.
type TrailingInputError struct {
	Found token.Token
}

func (e *TrailingInputError) At() token.Token { return e.Found }

func (e *TrailingInputError) Error() string {
	return fmt.Sprintf("unexpected %s after complete expression at line %d, column %d",
		e.Found.Describe(), e.Found.Line, e.Found.Column)
}

// NestingError means conditionals and groups nest deeper than the parser allows.
type NestingError struct {
	Limit int
	Found token.Token
}

func (e *NestingError) At() token.Token { return e.Found }

func (e *NestingError) Error() string {
	return fmt.Sprintf("expression nests deeper than %d levels at line %d, column %d",
		e.Limit, e.Found.Line, e.Found.Column)
}

// IsIncomplete reports whether err was caused by input ending too early,
// i.e. more text could still turn it into a valid expression.
func IsIncomplete(err error) bool {
	var ue *UnexpectedTokenError
	return errors.As(err, &ue) && ue.Found.Type == token.EOF
}

func describeKind(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	case token.LPAREN, token.RPAREN:
		return fmt.Sprintf("%q", string(t))
	default:
		return fmt.Sprintf("%q", strings.ToLower(string(t)))
	}
}

func describeKinds(kinds []token.TokenType) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = describeKind(k)
	}
	switch len(parts) {
	case 0:
		return "nothing"
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
