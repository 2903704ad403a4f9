package main

import (
	"condexpr/pkg/diag"
	"condexpr/pkg/lexer"
	"condexpr/pkg/token"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/debug_tokens '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	l := lexer.New(input)

	fmt.Printf("Input: %s\n\n", input)
	fmt.Println("Tokens:")
	fmt.Println("-------")

	for {
		tok, err := l.NextToken()
		if err != nil {
			fmt.Println()
			fmt.Println(diag.Render(err, "argv", input))
			os.Exit(1)
		}
		fmt.Printf("%-15s %-20s (pos %d, line %d, col %d)\n", tok.Type, fmt.Sprintf("'%s'", tok.Literal), tok.Pos, tok.Line, tok.Column)

		if tok.Type == token.EOF {
			break
		}
	}
}
