package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Source string
	Status string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed queries",
		Long: `Show the queries executed from the UI, the query command and the REPL,
newest first, with their status, row count and duration.`,
		Example: `  # Last 20 queries
  leapquery history --limit 20

  # Failed queries from the explorer page
  leapquery history --source explorer --status error

  # Forget everything
  leapquery history clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", history.DefaultListLimit, "Maximum number of entries")
	cmd.Flags().StringVar(&opts.Source, "source", "", "Only show entries from this source (builder, explorer, cli)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Only show entries with this status (ok, error)")

	_ = cmd.RegisterFlagCompletionFunc("status", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(history.StatusOK), string(history.StatusError)}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newHistoryClearCommand())
	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cc := NewCommandContextWithoutDB(cmd)

	format, err := resolveFormat(cc.Cfg.OutputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	store, err := openHistory(cc.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(cmd.Context(), history.Filter{
		Source: opts.Source,
		Status: history.Status(opts.Status),
		Limit:  opts.Limit,
	})
	if err != nil {
		return err
	}
	return export.Write(cmd.OutOrStdout(), historyResult(entries), format)
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutDB(cmd)
			store, err := openHistory(cc.Cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries.\n", n)
			return nil
		},
	}
}

// historyResult lays out history entries as a result for the exporters.
func historyResult(entries []*history.Entry) *core.Result {
	res := &core.Result{
		Columns: []string{"executed_at", "source", "status", "rows", "duration", "sql", "error"},
		Rows:    make([]map[string]any, len(entries)),
	}
	for i, e := range entries {
		var errMsg any
		if e.Error != "" {
			errMsg = e.Error
		}
		res.Rows[i] = map[string]any{
			"executed_at": e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
			"source":      e.Source,
			"status":      string(e.Status),
			"rows":        e.RowCount,
			"duration":    e.Duration.String(),
			"sql":         e.SQL,
			"error":       errMsg,
		}
	}
	return res
}
