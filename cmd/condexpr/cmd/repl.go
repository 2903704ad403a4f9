package cmd

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/diag"
	"condexpr/pkg/parser"
	"condexpr/pkg/version"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".condexpr_history"
	promptMain  = "cx> "
	promptCont  = "... "
)

func (a *app) newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive parser session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd)
		},
	}
}

func (a *app) repl(cmd *cobra.Command) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "condexpr %s REPL\n", version.Version)
	fmt.Fprintln(out, "Enter an expression; unfinished input continues on the next line.")
	fmt.Fprintln(out, "Commands: :dump toggles tree view, :quit exits.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	svc := a.service()
	dump := false
	for n := 1; ; n++ {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":dump":
			dump = !dump
			fmt.Fprintf(out, "tree view %v\n", map[bool]string{true: "on", false: "off"}[dump])
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		name := fmt.Sprintf("repl#%d", n)
		res, err := svc.Parse(cmd.Context(), name, code)
		if err != nil {
			fmt.Fprintln(errOut, diag.Render(err, name, code))
			continue
		}
		if dump {
			fmt.Fprintln(out, ast.Dump(res.Tree))
		} else {
			fmt.Fprintln(out, res.Tree.String())
		}
	}
}

// readByParseProbe keeps prompting while the collected text is a valid
// prefix that ran out of input.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := parser.ParseString(src); parser.IsIncomplete(perr) && strings.TrimSpace(line) != "" {
			continue
		}
		return src, true
	}
}
