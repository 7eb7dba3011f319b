package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute SQL against the target database",
		Long: `Execute a SQL statement against the configured target and print the result.

The statement is taken from the arguments, from --input, or from stdin when
it is not a terminal. Without any of these an interactive REPL starts.

Every execution is recorded in the query history unless history is disabled.`,
		Example: `  # Execute SQL directly
  leapquery query "SELECT * FROM orders LIMIT 5"

  # Output as CSV
  leapquery query "SELECT * FROM orders" --format csv > orders.csv

  # Read from a file or a pipe
  leapquery query --input report.sql
  echo "SELECT 1" | leapquery query

  # Interactive mode
  leapquery query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	var stmt string

	switch {
	case len(args) > 0:
		stmt = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		stmt = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		stmt = string(content)
	default:
		return runREPL(cmd)
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := resolveFormat(cc.Cfg.OutputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	res, err := cc.Runner.Run(cmd.Context(), metrics.SourceCLI, stmt)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return export.Write(cmd.OutOrStdout(), res, format)
}
