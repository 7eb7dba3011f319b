package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/internal/testutil"
	"github.com/leapstack-labs/leapquery/pkg/core"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	result  *core.Result
	err     error
	block   bool
	gotSQL  string
	gotMax  int
	hasDead bool
}

func (f *fakeExecutor) Execute(ctx context.Context, stmt string, maxRows int) (*core.Result, error) {
	f.gotSQL = stmt
	f.gotMax = maxRows
	_, f.hasDead = ctx.Deadline()
	if f.block {
		<-ctx.Done()
		return nil, &core.ExecutionError{SQL: stmt, Err: ctx.Err()}
	}
	return f.result, f.err
}

type fakeRecorder struct {
	entries []*history.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e *history.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func TestRunner_Run(t *testing.T) {
	exec := &fakeExecutor{result: &core.Result{
		Columns: []string{"n"},
		Rows:    []map[string]any{{"n": 1}, {"n": 2}},
	}}
	rec := &fakeRecorder{}
	m := metrics.New(nil)

	r := New(Config{
		Executor: exec,
		Timeout:  time.Second,
		MaxRows:  100,
		Metrics:  m,
		History:  rec,
		Logger:   testutil.NewTestLogger(t),
	})

	res, err := r.Run(context.Background(), metrics.SourceBuilder, "  SELECT n FROM t;  ")
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowCount())
	assert.Equal(t, "SELECT n FROM t;", exec.gotSQL)
	assert.Equal(t, 100, exec.gotMax)
	assert.True(t, exec.hasDead)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, history.StatusOK, rec.entries[0].Status)
	assert.Equal(t, 2, rec.entries[0].RowCount)
	assert.Equal(t, metrics.SourceBuilder, rec.entries[0].Source)

	assert.InDelta(t, 1, promtest.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.SourceBuilder, "ok")), 0)
}

func TestRunner_RunError(t *testing.T) {
	execErr := &core.ExecutionError{SQL: "SELECT x", Err: errors.New(`column "x" does not exist`)}
	exec := &fakeExecutor{err: execErr}
	rec := &fakeRecorder{}
	m := metrics.New(nil)
	r := New(Config{Executor: exec, Metrics: m, History: rec})

	res, err := r.Run(context.Background(), metrics.SourceExplorer, "SELECT x")
	assert.Nil(t, res)

	var ee *core.ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, `column "x" does not exist`, err.Error())
	assert.False(t, exec.hasDead, "no deadline without a timeout")

	require.Len(t, rec.entries, 1)
	assert.Equal(t, history.StatusError, rec.entries[0].Status)
	assert.Equal(t, `column "x" does not exist`, rec.entries[0].Error)
	assert.InDelta(t, 1, promtest.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.SourceExplorer, "error")), 0)
}

func TestRunner_Timeout(t *testing.T) {
	exec := &fakeExecutor{block: true}
	r := New(Config{Executor: exec, Timeout: 10 * time.Millisecond})

	_, err := r.Run(context.Background(), metrics.SourceCLI, "SELECT pg_sleep(10)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query timed out after 10ms")
}

func TestRunner_EmptyQuery(t *testing.T) {
	exec := &fakeExecutor{}
	rec := &fakeRecorder{}
	r := New(Config{Executor: exec, History: rec})

	_, err := r.Run(context.Background(), metrics.SourceCLI, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, exec.gotSQL)
	assert.Empty(t, rec.entries)
}

func TestRunner_NoExecutor(t *testing.T) {
	r := New(Config{})

	_, err := r.Run(context.Background(), metrics.SourceCLI, "SELECT 1")
	var ee *core.ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "no database connection", err.Error())
}

func TestRunner_HistoryFailureIsNotFatal(t *testing.T) {
	exec := &fakeExecutor{result: &core.Result{Columns: []string{"n"}}}
	rec := &fakeRecorder{err: errors.New("disk full")}
	r := New(Config{Executor: exec, History: rec, Logger: testutil.NewTestLogger(t)})

	res, err := r.Run(context.Background(), metrics.SourceCLI, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowCount())
}
