package testutil

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/stretchr/testify/require"
)

// ShopSchema creates and fills the orders and customers tables used by
// handler and command tests.
var ShopSchema = []string{
	`CREATE TABLE customers (id INTEGER, name VARCHAR, city VARCHAR)`,
	`INSERT INTO customers VALUES
		(1, 'Alice', 'Oslo'),
		(2, 'Bob O''Brien', 'Dublin'),
		(3, 'Carla', 'Lisbon')`,
	`CREATE TABLE orders (id INTEGER, customer_id INTEGER, status VARCHAR, amount DOUBLE, code VARCHAR)`,
	`INSERT INTO orders VALUES
		(1, 1, 'shipped', 120.0, 'AB-0042'),
		(2, 2, 'pending', 80.5, 'AB-0100'),
		(3, 3, 'Shipping', 300.0, 'n/a'),
		(4, 1, 'cancelled', 15.0, 'AB-0007')`,
}

// NewDuckDB opens an in-memory DuckDB adapter, runs the seed statements
// and closes it when the test ends.
func NewDuckDB(t testing.TB, seed ...string) core.Adapter {
	t.Helper()

	adp := duckdb.New(NewTestLogger(t))
	ctx := context.Background()
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Type: "duckdb", Path: ":memory:"}))
	t.Cleanup(func() { _ = adp.Close() })

	for _, stmt := range seed {
		require.NoError(t, adp.Exec(ctx, stmt))
	}
	return adp
}
