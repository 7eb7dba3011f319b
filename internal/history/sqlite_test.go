package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenRunsMigrations(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestSQLiteStore_OpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.FileExists(t, path)
}

func TestSQLiteStore_RecordAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e := &Entry{
		Source:   "cli",
		SQL:      "SELECT 1;",
		Status:   StatusOK,
		RowCount: 1,
		Duration: 12 * time.Millisecond,
	}
	require.NoError(t, store.Record(ctx, e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.ExecutedAt.IsZero())

	got, err := store.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "cli", got.Source)
	assert.Equal(t, "SELECT 1;", got.SQL)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, 1, got.RowCount)
	assert.Equal(t, 12*time.Millisecond, got.Duration)
	assert.Empty(t, got.Error)
	assert.Equal(t, e.ExecutedAt.UnixMilli(), got.ExecutedAt.UnixMilli())
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	entries := []*Entry{
		{Source: "builder", SQL: "SELECT 1;", Status: StatusOK, ExecutedAt: base},
		{Source: "explorer", SQL: "SELECT 2;", Status: StatusError, Error: "boom", ExecutedAt: base.Add(time.Minute)},
		{Source: "builder", SQL: "SELECT 3;", Status: StatusOK, ExecutedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{"SELECT 3;", "SELECT 2;", "SELECT 1;"}},
		{"by source", Filter{Source: "builder"}, []string{"SELECT 3;", "SELECT 1;"}},
		{"by status", Filter{Status: StatusError}, []string{"SELECT 2;"}},
		{"limit", Filter{Limit: 1}, []string{"SELECT 3;"}},
		{"no match", Filter{Source: "cli"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			require.NoError(t, err)

			var sqls []string
			for _, e := range got {
				sqls = append(sqls, e.SQL)
			}
			assert.Equal(t, tt.want, sqls)
		})
	}

	failed, err := store.List(ctx, Filter{Status: StatusError})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].Error)
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, store.Record(ctx, &Entry{Source: "cli", SQL: "SELECT 1;", Status: StatusOK}))
	}

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore()
	ctx := context.Background()

	assert.Error(t, store.Record(ctx, &Entry{}))
	_, err := store.List(ctx, Filter{})
	assert.Error(t, err)
	_, err = store.Clear(ctx)
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
