package cmd

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/diag"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newASTCmd() *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree as text, dump, json or yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			res, err := a.service().Parse(cmd.Context(), name, src)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), diag.Render(err, name, src))
				return errReported
			}
			return printAST(cmd.OutOrStdout(), res.Tree, format)
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "text", "output format: text, dump, json or yaml")
	return c
}

func printAST(out io.Writer, tree ast.Expression, format string) error {
	switch format {
	case "text":
		fmt.Fprintln(out, tree.String())
	case "dump":
		fmt.Fprintln(out, ast.Dump(tree))
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ast.Encode(tree))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(ast.Encode(tree)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, dump, json or yaml)", format)
	}
	return nil
}
