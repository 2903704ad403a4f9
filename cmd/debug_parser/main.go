package main

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/diag"
	"condexpr/pkg/parser"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/debug_parser '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	tree, err := parser.ParseString(input)
	if err != nil {
		fmt.Println("Parser error:")
		fmt.Printf("  %s\n\n", err)
		fmt.Println(diag.Render(err, "argv", input))
		os.Exit(1)
	}

	stats := ast.Collect(tree)
	fmt.Printf("AST:\n%s\n\n", ast.Dump(tree))
	fmt.Printf("Canonical: %s\n", tree.String())
	fmt.Printf("Identifiers: %d, conditionals: %d, groups: %d, depth: %d\n",
		stats.Identifiers, stats.Conditionals, stats.Groups, stats.Depth)
}
