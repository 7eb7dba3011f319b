package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver
)

var errNotOpened = errors.New("database not opened")

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history entry not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite history store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the database at path, creating its directory, and runs
// migrations. Use ":memory:" for an in-memory database.
func Open(path string) (*SQLiteStore, error) {
	s := NewSQLiteStore()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Open opens a connection to the SQLite database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts e, assigning its ID and ExecutedAt when unset.
func (s *SQLiteStore) Record(ctx context.Context, e *Entry) error {
	if s.db == nil {
		return errNotOpened
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, source, sql_text, status, row_count, duration_ms, error, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.SQL, string(e.Status), e.RowCount, e.Duration.Milliseconds(),
		nullString(e.Error), e.ExecutedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]*Entry, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	var where []string
	var args []any
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	q := `SELECT id, source, sql_text, status, row_count, duration_ms, error, executed_at FROM query_history`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY executed_at DESC, rowid DESC LIMIT ?"
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, sql_text, status, row_count, duration_ms, error, executed_at FROM query_history WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// Clear deletes every entry and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, errNotOpened
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM query_history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e          Entry
		status     string
		durationMS int64
		errMsg     sql.NullString
		executedAt int64
	)
	if err := sc.Scan(&e.ID, &e.Source, &e.SQL, &status, &e.RowCount, &durationMS, &errMsg, &executedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}
	e.Status = Status(status)
	e.Duration = time.Duration(durationMS) * time.Millisecond
	e.Error = errMsg.String
	e.ExecutedAt = time.UnixMilli(executedAt).UTC()
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Store = (*SQLiteStore)(nil)
