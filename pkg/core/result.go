package core

import "time"

// Result is a materialized query result.
type Result struct {
	// Columns in the order the database returned them.
	Columns []string
	// Rows keyed by column name. []byte values are converted to string.
	Rows []map[string]any
	// Duration is the wall time spent executing and scanning.
	Duration time.Duration
	// Truncated is set when more rows were available than the cap allowed.
	Truncated bool
}

// RowCount returns the number of materialized rows.
func (r *Result) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Values returns row i as a slice ordered like Columns.
func (r *Result) Values(i int) []any {
	out := make([]any, len(r.Columns))
	for j, c := range r.Columns {
		out[j] = r.Rows[i][c]
	}
	return out
}

// ExecutionError wraps a database error raised while running a statement.
// Its message is the driver's message, unchanged, so it can be shown to
// the user as-is.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
