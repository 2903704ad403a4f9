package cmd

import (
	"condexpr/pkg/diag"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newInspectCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize identifiers, conditionals and nesting depth",
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

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"name":        res.Name,
					"digest":      res.Digest,
					"identifiers": res.Identifiers,
					"stats":       res.Stats,
				})
			}

			fmt.Fprintf(out, "Source: %s (blake2b %s)\n", res.Name, res.Digest[:16])
			fmt.Fprintf(out, "Conditionals: %d\n", res.Stats.Conditionals)
			fmt.Fprintf(out, "Groups:       %d\n", res.Stats.Groups)
			fmt.Fprintf(out, "Depth:        %d\n", res.Stats.Depth)
			fmt.Fprintf(out, "Identifiers (%d)\n", res.Stats.Identifiers)
			fmt.Fprintf(out, "  · %s\n", strings.Join(res.Identifiers, ", "))
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return c
}
