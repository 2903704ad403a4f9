package cmd

import (
	"condexpr/pkg/config"
	"condexpr/pkg/logging"
	"condexpr/pkg/service"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Sample is parsed when no input file is given.
const Sample = "if x then (y) else z end if"

// errReported marks failures whose message was already written to stderr.
var errReported = errors.New("reported")

type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *logrus.Entry
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "condexpr [file]",
		Short: "Parse nested if/then/else conditional expressions",
		Long: `condexpr lexes and parses conditional expressions of the form

  if <expr> then <expr> else <expr> end if

where <expr> is another conditional, a parenthesized expression or an
identifier. Without a file argument the built-in sample is parsed.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runParse,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./condexpr.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		a.newParseCmd(),
		a.newTokensCmd(),
		a.newASTCmd(),
		a.newInspectCmd(),
		a.newReplCmd(),
		a.newServeCmd(),
		a.newTokenCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	log, err := logging.New(cmd.Name(), logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) service() *service.Service {
	return service.New(a.cfg.Parser, a.log)
}

// readSource resolves the input: a file path, "-" for stdin, or the sample
// when no argument is given.
func readSource(cmd *cobra.Command, args []string) (name, src string, err error) {
	if len(args) == 0 {
		return "sample", Sample, nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "stdin", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("error reading file: %w", err)
	}
	return args[0], string(data), nil
}
