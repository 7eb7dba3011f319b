// Package history records executed queries in a local SQLite database.
package history

import (
	"context"
	"time"
)

// Status is the outcome of an executed query.
type Status string

// Query outcomes.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Entry is one executed query.
type Entry struct {
	ID         string
	Source     string
	SQL        string
	Status     Status
	RowCount   int
	Duration   time.Duration
	Error      string
	ExecutedAt time.Time
}

// Filter narrows List results.
type Filter struct {
	Source string
	Status Status
	Limit  int
}

// Recorder stores executed queries.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// Reader looks up recorded queries.
type Reader interface {
	List(ctx context.Context, f Filter) ([]*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
}

// Store is the full history store.
type Store interface {
	Recorder
	Reader
	Clear(ctx context.Context) (int64, error)
	Close() error
}
