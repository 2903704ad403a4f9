package cmd

import (
	"condexpr/pkg/diag"
	"condexpr/pkg/lexer"
	"condexpr/pkg/token"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newTokensCmd() *cobra.Command {
	var code string
	c := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a file, -e code or the sample",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src := "code", code
			if code == "" {
				var err error
				if name, src, err = readSource(cmd, args); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Input: %s\n\n", src)
			fmt.Fprintln(out, "Tokens:")
			fmt.Fprintln(out, "-------")

			l := lexer.New(src)
			for {
				tok, err := l.NextToken()
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), diag.Render(err, name, src))
					return errReported
				}
				fmt.Fprintf(out, "%-8s %-12s (pos %d, line %d, col %d)\n",
					tok.Type, fmt.Sprintf("'%s'", tok.Literal), tok.Pos, tok.Line, tok.Column)
				if tok.Type == token.EOF {
					return nil
				}
			}
		},
	}
	c.Flags().StringVarP(&code, "eval", "e", "", "tokenize this code instead of a file")
	return c
}
