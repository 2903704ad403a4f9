package lexer

import (
	"condexpr/pkg/token"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestNextToken(t *testing.T) {
	input := `if x then (y) else z end if`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
		expectedPos     int
	}{
		{token.IF, "if", 0},
		{token.IDENT, "x", 3},
		{token.THEN, "then", 5},
		{token.LPAREN, "(", 10},
		{token.IDENT, "y", 11},
		{token.RPAREN, ")", 12},
		{token.ELSE, "else", 14},
		{token.IDENT, "z", 19},
		{token.END, "end", 21},
		{token.IF, "if", 25},
		{token.EOF, "", 27},
	}

	l := New(input)

	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q, literal=%q",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}

		if tok.Pos != tt.expectedPos {
			t.Fatalf("tests[%d] - pos wrong. expected=%d, got=%d",
				i, tt.expectedPos, tok.Pos)
		}
	}
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	input := "IF If iff endif then2 Then"
	toks, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, tok := range toks[:len(toks)-1] {
		if tok.Type != token.IDENT {
			t.Errorf("toks[%d] - expected IDENT, got=%q (%q)", i, tok.Type, tok.Literal)
		}
	}
}

func TestLineAndColumn(t *testing.T) {
	input := "if a\n  then b\r\n\telse c end if\n"
	toks, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		literal string
		line    int
		column  int
	}{
		{"if", 1, 1},
		{"a", 1, 4},
		{"then", 2, 3},
		{"b", 2, 8},
		{"else", 3, 2},
		{"c", 3, 7},
		{"end", 3, 9},
		{"if", 3, 13},
		{"", 4, 1},
	}
	if len(toks) != len(tests) {
		t.Fatalf("wrong token count. expected=%d, got=%d", len(tests), len(toks))
	}
	for i, tt := range tests {
		tok := toks[i]
		if tok.Literal != tt.literal || tok.Line != tt.line || tok.Column != tt.column {
			t.Errorf("tests[%d] - expected %q at %d:%d, got %q at %d:%d",
				i, tt.literal, tt.line, tt.column, tok.Literal, tok.Line, tok.Column)
		}
	}
}

func TestIdentifiersWithDigitsAndUnicode(t *testing.T) {
	toks, err := Tokenize("x1 größe a2b3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"x1", "größe", "a2b3", ""}
	for i, w := range want {
		if toks[i].Literal != w {
			t.Errorf("toks[%d] - expected %q, got %q", i, w, toks[i].Literal)
		}
	}
	// "größe" is 7 bytes, so "a2b3" starts at byte 11.
	if toks[2].Pos != 11 {
		t.Errorf("byte offset wrong. expected=11, got=%d", toks[2].Pos)
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	l := New("  x  ")
	if tok, _ := l.NextToken(); tok.Type != token.IDENT {
		t.Fatalf("expected IDENT, got %q", tok.Type)
	}
	for i := 0; i < 5; i++ {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("call %d - unexpected error: %v", i, err)
		}
		if tok.Type != token.EOF || tok.Pos != 5 {
			t.Fatalf("call %d - expected EOF at 5, got %s at %d", i, tok.Type, tok.Pos)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	toks, err := Tokenize(" \t\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Type != token.EOF {
		t.Fatalf("expected a single EOF, got %v", toks)
	}
}

func TestIllegalCharacter(t *testing.T) {
	tests := []struct {
		input string
		char  rune
		pos   int
	}{
		{"x + y", '+', 2},
		{"if x_1", '_', 4},
		{"1abc", '1', 0},
		{"(a)\n;", ';', 4},
		{"é€", '€', 2},
	}

	for i, tt := range tests {
		_, err := Tokenize(tt.input)
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Fatalf("tests[%d] - expected *LexError, got %T (%v)", i, err, err)
		}
		if lexErr.Char != tt.char || lexErr.Pos != tt.pos {
			t.Errorf("tests[%d] - expected %q at %d, got %q at %d",
				i, tt.char, tt.pos, lexErr.Char, lexErr.Pos)
		}
	}
}

func TestLexErrorIsTerminal(t *testing.T) {
	l := New("a # b")
	if _, err := l.NextToken(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, first := l.NextToken()
	if first == nil {
		t.Fatal("expected an error for '#'")
	}
	_, second := l.NextToken()
	if second != first {
		t.Fatalf("expected the same error again, got %v", second)
	}
}

func TestLosslessOverNonWhitespace(t *testing.T) {
	inputs := []string{
		"if x then (y) else z end if",
		"  if (if a then b else c end if)\n then d\telse e end if  ",
		"((((deep))))",
		"x y z",
	}

	for _, input := range inputs {
		toks, err := Tokenize(input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}

		var rebuilt strings.Builder
		last := 0
		for i, tok := range toks {
			if tok.Pos < last {
				t.Fatalf("%q: toks[%d] out of order (%d < %d)", input, i, tok.Pos, last)
			}
			gap := input[last:tok.Pos]
			if strings.Trim(gap, " \t\r\n") != "" {
				t.Fatalf("%q: non-whitespace skipped: %q", input, gap)
			}
			rebuilt.WriteString(gap)
			if input[tok.Pos:tok.Pos+len(tok.Literal)] != tok.Literal {
				t.Fatalf("%q: toks[%d] literal %q does not match source", input, i, tok.Literal)
			}
			rebuilt.WriteString(tok.Literal)
			last = tok.Pos + len(tok.Literal)
		}
		if rebuilt.String() != input {
			t.Errorf("rebuilt %q, want %q", rebuilt.String(), input)
		}
		if toks[len(toks)-1].Type != token.EOF {
			t.Errorf("%q: last token is not EOF", input)
		}
	}
}

func TestNewReaderStreams(t *testing.T) {
	r := iotest.OneByteReader(strings.NewReader("if a then b else c end if"))
	l := NewReader(r)

	var types []token.TokenType
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	if len(types) != 9 {
		t.Fatalf("expected 9 tokens, got %d: %v", len(types), types)
	}
}

func TestReaderErrorIsSurfaced(t *testing.T) {
	boom := errors.New("boom")
	r := iotest.ErrReader(boom)
	l := NewReader(r)
	_, err := l.NextToken()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestResetAndPool(t *testing.T) {
	l := New("a % b")
	for {
		if _, err := l.NextToken(); err != nil {
			break
		}
	}

	l.Reset(strings.NewReader("(\nq)"))
	want := []token.Token{
		{Type: token.LPAREN, Literal: "(", Pos: 0, Line: 1, Column: 1},
		{Type: token.IDENT, Literal: "q", Pos: 2, Line: 2, Column: 1},
		{Type: token.RPAREN, Literal: ")", Pos: 3, Line: 2, Column: 2},
		{Type: token.EOF, Literal: "", Pos: 4, Line: 2, Column: 3},
	}
	for i, tt := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error after reset: %v", i, err)
		}
		if tok != tt {
			t.Fatalf("tests[%d] - token wrong. expected=%+v, got=%+v", i, tt, tok)
		}
	}

	pooled := Get(strings.NewReader("if"))
	tok, err := pooled.NextToken()
	Put(pooled)
	if err != nil || tok.Type != token.IF {
		t.Fatalf("pooled lexer wrong. got=%+v err=%v", tok, err)
	}
}
