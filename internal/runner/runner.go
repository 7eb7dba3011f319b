// Package runner executes statements against the target database and
// records the outcome in metrics and the query history.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/pkg/core"
)

// ErrEmptyQuery is returned when the statement is blank.
var ErrEmptyQuery = errors.New("query cannot be empty")

// Config holds the runner's dependencies. Metrics and History may be nil.
type Config struct {
	Executor core.Executor
	Timeout  time.Duration
	MaxRows  int
	Metrics  *metrics.Metrics
	History  history.Recorder
	Logger   *slog.Logger
}

// Runner executes one statement per call. It holds no per-query state.
type Runner struct {
	executor core.Executor
	timeout  time.Duration
	maxRows  int
	metrics  *metrics.Metrics
	history  history.Recorder
	logger   *slog.Logger
}

// New creates a Runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		executor: cfg.Executor,
		timeout:  cfg.Timeout,
		maxRows:  cfg.MaxRows,
		metrics:  cfg.Metrics,
		history:  cfg.History,
		logger:   logger,
	}
}

// Run executes stmt on behalf of source. Execution failures are returned
// as *core.ExecutionError; history write failures are logged only.
func (r *Runner) Run(ctx context.Context, source, stmt string) (*core.Result, error) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil, ErrEmptyQuery
	}
	if r.executor == nil {
		return nil, &core.ExecutionError{SQL: stmt, Err: errors.New("no database connection")}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.executor.Execute(ctx, stmt, r.maxRows)
	elapsed := time.Since(start)
	if res == nil && err == nil {
		res = &core.Result{}
	}

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &core.ExecutionError{SQL: stmt, Err: fmt.Errorf("query timed out after %s", r.timeout)}
	}

	rows := res.RowCount()
	r.metrics.ObserveQuery(source, elapsed, rows, err)
	r.record(ctx, source, stmt, rows, elapsed, err)

	if err != nil {
		r.logger.Debug("query failed", "source", source, "duration", elapsed, "error", err)
		return nil, err
	}
	r.logger.Debug("query executed", "source", source, "rows", rows, "duration", elapsed, "truncated", res.Truncated)
	return res, nil
}

func (r *Runner) record(ctx context.Context, source, stmt string, rows int, elapsed time.Duration, err error) {
	if r.history == nil {
		return
	}

	entry := &history.Entry{
		Source:   source,
		SQL:      stmt,
		Status:   history.StatusOK,
		RowCount: rows,
		Duration: elapsed,
	}
	if err != nil {
		entry.Status = history.StatusError
		entry.Error = err.Error()
	}

	// The query context may already be expired.
	if herr := r.history.Record(context.WithoutCancel(ctx), entry); herr != nil {
		r.logger.Warn("failed to record query history", "error", herr)
	}
}
