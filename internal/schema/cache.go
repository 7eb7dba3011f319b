// Package schema caches table and column listings from a target database.
package schema

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Cache memoizes a core.SchemaProvider. Listings are kept until
// Invalidate is called. Column listings are only kept for tables the
// table listing contains, so arbitrary names cannot grow the cache. It is
// safe for concurrent use.
type Cache struct {
	provider core.SchemaProvider
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	tables  []string
	loaded  bool
	columns map[string][]string
}

// NewCache wraps provider. m may be nil.
func NewCache(provider core.SchemaProvider, m *metrics.Metrics) *Cache {
	return &Cache{
		provider: provider,
		metrics:  m,
		columns:  make(map[string][]string),
	}
}

// Tables returns the table names of the target schema.
func (c *Cache) Tables(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.loaded {
		tables := slices.Clone(c.tables)
		c.mu.RUnlock()
		c.metrics.ObserveSchemaLookup("tables", true)
		return tables, nil
	}
	c.mu.RUnlock()
	c.metrics.ObserveSchemaLookup("tables", false)

	tables, err := c.provider.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	c.mu.Lock()
	c.tables = tables
	c.loaded = true
	c.mu.Unlock()

	return slices.Clone(tables), nil
}

// Columns returns the ordered column names of table.
func (c *Cache) Columns(ctx context.Context, table string) ([]string, error) {
	if table == "" {
		return nil, nil
	}

	c.mu.RLock()
	cols, ok := c.columns[table]
	c.mu.RUnlock()
	if ok {
		c.metrics.ObserveSchemaLookup("columns", true)
		return slices.Clone(cols), nil
	}
	c.metrics.ObserveSchemaLookup("columns", false)

	cols, err := c.provider.ListColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}

	if c.known(ctx, table) {
		c.mu.Lock()
		c.columns[table] = cols
		c.mu.Unlock()
	}

	return slices.Clone(cols), nil
}

// known reports whether table appears in the table listing.
func (c *Cache) known(ctx context.Context, table string) bool {
	c.mu.RLock()
	loaded, found := c.loaded, slices.Contains(c.tables, table)
	c.mu.RUnlock()
	if loaded {
		return found
	}
	tables, err := c.Tables(ctx)
	return err == nil && slices.Contains(tables, table)
}

// Invalidate drops every cached listing.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.tables = nil
	c.loaded = false
	c.columns = make(map[string][]string)
	c.mu.Unlock()
}
