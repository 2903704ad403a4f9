// Package diag turns lexer and parser failures into caret-annotated snippets:
//
//	PARSE ERROR in sample at 1:13: expected "else", found "end" at line 1, column 13
//
//	   1 | if x then y end if
//	     |             ^
//
// Errors that carry no source position are returned unchanged.
package diag

import (
	"condexpr/pkg/lexer"
	"condexpr/pkg/parser"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Location is where a diagnostic points, with both coordinates 1-based.
type Location struct {
	Kind   string // "LEXICAL ERROR" or "PARSE ERROR"
	Pos    int
	Line   int
	Column int
}

// Locate extracts the source location carried by err.
func Locate(err error, src string) (Location, bool) {
	var le *lexer.LexError
	if errors.As(err, &le) {
		return fill(Location{Kind: "LEXICAL ERROR", Pos: le.Pos, Line: le.Line, Column: le.Column}, src), true
	}
	var pe parser.ParseError
	if errors.As(err, &pe) {
		tok := pe.At()
		return fill(Location{Kind: "PARSE ERROR", Pos: tok.Pos, Line: tok.Line, Column: tok.Column}, src), true
	}
	return Location{}, false
}

// Kind names the error class for machine consumers.
func Kind(err error) string {
	var (
		le *lexer.LexError
		ue *parser.UnexpectedTokenError
		te *parser.TrailingInputError
		ne *parser.NestingError
	)
	switch {
	case errors.As(err, &le):
		return "lex"
	case errors.As(err, &ue):
		return "unexpected_token"
	case errors.As(err, &te):
		return "trailing_input"
	case errors.As(err, &ne):
		return "nesting"
	}
	return "internal"
}

// Render formats err against src. name labels the source and may be empty.
func Render(err error, name, src string) string {
	loc, ok := Locate(err, src)
	if !ok {
		return err.Error()
	}
	return snippet(src, loc, name, err.Error())
}

// Wrap is Render returned as an error; errors.As still reaches the original.
func Wrap(err error, name, src string) error {
	if err == nil {
		return nil
	}
	if _, ok := Locate(err, src); !ok {
		return err
	}
	return &renderedError{err: err, text: Render(err, name, src)}
}

type renderedError struct {
	err  error
	text string
}

func (e *renderedError) Error() string { return e.text }
func (e *renderedError) Unwrap() error { return e.err }

// fill derives line and column from the byte offset when a token source
// did not supply them.
func fill(loc Location, src string) Location {
	if loc.Line > 0 && loc.Column > 0 {
		return loc
	}
	pos := min(max(loc.Pos, 0), len(src))
	before := src[:pos]
	loc.Line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	loc.Column = utf8.RuneCountInString(before[lineStart:]) + 1
	return loc
}

func snippet(src string, loc Location, name, msg string) string {
	lines := strings.Split(src, "\n")
	line := min(max(loc.Line, 1), len(lines))
	col := max(loc.Column, 1)

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", loc.Kind, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", loc.Kind, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, strings.TrimRight(lines[line-2], "\r"))
	}
	text := strings.TrimRight(lines[line-1], "\r")
	fmt.Fprintf(&b, "%4d | %s\n", line, text)
	fmt.Fprintf(&b, "     | %s^\n", caretPad(text, col))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, strings.TrimRight(lines[line], "\r"))
	}
	return b.String()
}

// caretPad keeps tabs so the caret lines up under the offending column.
func caretPad(text string, col int) string {
	var pad strings.Builder
	i := 1
	for _, r := range text {
		if i >= col {
			break
		}
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		pad.WriteByte(' ')
	}
	return pad.String()
}
