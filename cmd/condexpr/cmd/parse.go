package cmd

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/diag"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newParseCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file (or the built-in sample) and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runParse,
	}
	c.Flags().Bool("dump", false, "print the structural tree instead of canonical source")
	return c
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	name, src, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintf(out, "No file provided. Using sample: %s\n", src)
	} else {
		fmt.Fprintf(out, "Reading from file: %s\n", name)
	}

	res, err := a.service().Parse(cmd.Context(), name, src)
	if err != nil {
		fmt.Fprintf(errOut, "Parse failed: %s\n", diag.Render(err, name, src))
		return errReported
	}

	result := res.Tree.String()
	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		result = ast.Dump(res.Tree)
	}
	fmt.Fprintf(out, "Parse success. Result: %s\n", result)
	return nil
}
