package schema

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	tables      []string
	columns     map[string][]string
	err         error
	tableCalls  int
	columnCalls int
}

func (f *fakeProvider) ListTables(_ context.Context) ([]string, error) {
	f.tableCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tables, nil
}

func (f *fakeProvider) ListColumns(_ context.Context, table string) ([]string, error) {
	f.columnCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.columns[table], nil
}

func TestCache_Tables(t *testing.T) {
	p := &fakeProvider{tables: []string{"customers", "orders"}}
	m := metrics.New(nil)
	c := NewCache(p, m)
	ctx := context.Background()

	tables, err := c.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)

	tables[0] = "mutated"
	tables, err = c.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)
	assert.Equal(t, 1, p.tableCalls)

	assert.InDelta(t, 1, testutil.ToFloat64(m.SchemaLookups.WithLabelValues("tables", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SchemaLookups.WithLabelValues("tables", "hit")), 0)
}

func TestCache_Columns(t *testing.T) {
	p := &fakeProvider{tables: []string{"orders"}, columns: map[string][]string{"orders": {"id", "amount"}}}
	c := NewCache(p, nil)
	ctx := context.Background()

	cols, err := c.Columns(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount"}, cols)

	_, err = c.Columns(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 1, p.columnCalls)

	cols, err = c.Columns(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, cols)
	assert.Equal(t, 1, p.columnCalls)
}

func TestCache_ColumnsOfUnlistedTableAreNotCached(t *testing.T) {
	p := &fakeProvider{
		tables:  []string{"orders"},
		columns: map[string][]string{"orders": {"id"}, "sales.orders": {"id", "total"}},
	}
	c := NewCache(p, nil)
	ctx := context.Background()

	for range 3 {
		cols, err := c.Columns(ctx, "sales.orders")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "total"}, cols)
	}
	assert.Equal(t, 3, p.columnCalls)

	for i := range 50 {
		_, err := c.Columns(ctx, fmt.Sprintf("ghost_%d", i))
		require.NoError(t, err)
	}
	assert.Empty(t, c.columns)
	assert.Equal(t, 1, p.tableCalls)

	_, err := c.Columns(ctx, "orders")
	require.NoError(t, err)
	assert.Len(t, c.columns, 1)
}

func TestCache_Invalidate(t *testing.T) {
	p := &fakeProvider{tables: []string{"orders"}, columns: map[string][]string{"orders": {"id"}}}
	c := NewCache(p, nil)
	ctx := context.Background()

	_, err := c.Tables(ctx)
	require.NoError(t, err)
	_, err = c.Columns(ctx, "orders")
	require.NoError(t, err)

	c.Invalidate()
	p.tables = []string{"orders", "returns"}

	tables, err := c.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "returns"}, tables)
	_, err = c.Columns(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, 2, p.tableCalls)
	assert.Equal(t, 2, p.columnCalls)
}

func TestCache_ErrorIsNotCached(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c := NewCache(p, nil)
	ctx := context.Background()

	_, err := c.Tables(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list tables: connection refused")

	_, err = c.Columns(ctx, "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list columns of orders")

	p.err = nil
	p.tables = []string{"orders"}
	tables, err := c.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tables)
}
