package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapquery/internal/cli/config"
	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/internal/runner"
	"github.com/leapstack-labs/leapquery/internal/schema"
	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	// Register the target adapters.
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/postgres"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Adapter  core.Adapter
	Schema   *schema.Cache
	Runner   *runner.Runner
	History  *history.SQLiteStore
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// NewCommandContext connects to the target and opens the query history.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutDB(cmd)

	adp, err := adapter.Open(cmd.Context(), cc.Cfg.Target, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.Adapter = adp

	if cc.Cfg.History.Enabled {
		store, err := history.Open(cc.Cfg.History.Path)
		if err != nil {
			// History is optional; queries still run without it.
			cc.Logger.Warn("query history disabled", "path", cc.Cfg.History.Path, "error", err)
		} else {
			cc.History = store
		}
	}

	rcfg := runner.Config{
		Executor: adp,
		Timeout:  cc.Cfg.UI.QueryTimeout,
		MaxRows:  cc.Cfg.UI.MaxRows,
		Metrics:  cc.Metrics,
		Logger:   cc.Logger,
	}
	if cc.History != nil {
		rcfg.History = cc.History
	}
	cc.Runner = runner.New(rcfg)
	cc.Schema = schema.NewCache(adp, cc.Metrics)

	cleanup := func() {
		if cc.History != nil {
			_ = cc.History.Close()
		}
		_ = adp.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutDB creates a CommandContext without a database
// connection. Useful for commands that only need configuration.
func NewCommandContextWithoutDB(cmd *cobra.Command) *CommandContext {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &CommandContext{
		Cfg:      getConfig(),
		Logger:   config.GetLogger(cmd.Context()),
		Registry: reg,
		Metrics:  metrics.New(reg),
	}
}

// openHistory opens the configured history store for the history command.
func openHistory(cfg *config.Config) (*history.SQLiteStore, error) {
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("query history is disabled (history.enabled: false)")
	}
	return history.Open(cfg.History.Path)
}

// getConfig returns the current configuration, loading the defaults when
// no command loaded one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{
			Target:       &core.TargetConfig{Type: "duckdb", Database: ":memory:", Schema: "main"},
			OutputFormat: config.DefaultOutput,
		}
	}
	return cfg
}

// resolveFormat maps the configured output format to an export format.
// "auto" renders a table on a terminal and markdown otherwise.
func resolveFormat(name string, w io.Writer) (export.Format, error) {
	if name == "" || name == config.DefaultOutput {
		if isTerminal(w) {
			return export.FormatTable, nil
		}
		return export.FormatMarkdown, nil
	}
	return export.ParseFormat(name)
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// listResult wraps a list of names as a one-column result.
// describeResult tabulates column metadata.
func describeResult(columns []core.Column) *core.Result {
	res := &core.Result{Columns: []string{"column", "type", "nullable"}, Rows: make([]map[string]any, len(columns))}
	for i, c := range columns {
		res.Rows[i] = map[string]any{"column": c.Name, "type": c.Type, "nullable": c.Nullable}
	}
	return res
}

func listResult(column string, names []string) *core.Result {
	res := &core.Result{Columns: []string{column}, Rows: make([]map[string]any, len(names))}
	for i, n := range names {
		res.Rows[i] = map[string]any{column: n}
	}
	return res
}
