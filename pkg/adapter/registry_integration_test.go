package adapter_test

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/postgres"
)

func TestListAdapters_BuiltIn(t *testing.T) {
	assert.Subset(t, adapter.ListAdapters(), []string{"duckdb", "postgres"})
}

func TestFactory_ReturnsUnconnectedAdapter(t *testing.T) {
	for _, name := range []string{"duckdb", "postgres"} {
		t.Run(name, func(t *testing.T) {
			factory, ok := adapter.Get(name)
			require.True(t, ok)

			adp := factory(nil)
			require.NotNil(t, adp)

			_, err := adp.ListTables(context.Background())
			assert.ErrorIs(t, err, adapter.ErrNotConnected)
			_, err = adp.Execute(context.Background(), "SELECT 1", 0)
			assert.ErrorIs(t, err, adapter.ErrNotConnected)
			assert.NoError(t, adp.Close())
		})
	}
}

func TestOpen_DuckDBTarget(t *testing.T) {
	ctx := context.Background()
	adp, err := adapter.Open(ctx, &core.TargetConfig{Type: "duckdb", Database: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adp.Close() })

	require.NoError(t, adp.Exec(ctx, "CREATE TABLE orders (id INTEGER, status VARCHAR)"))
	require.NoError(t, adp.Exec(ctx, "INSERT INTO orders VALUES (1, 'new'), (2, 'shipped')"))

	tables, err := adp.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tables)

	columns, err := adp.ListColumns(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "status"}, columns)

	res, err := adp.Execute(ctx, "SELECT status FROM orders ORDER BY id", 1)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"status": "new"}}, res.Rows)
	assert.True(t, res.Truncated)
}

func TestOpen_ConnectErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  *core.TargetConfig
		wantErr string
	}{
		{
			name: "invalid duckdb params",
			target: &core.TargetConfig{
				Type:   "duckdb",
				Params: map[string]any{"settings": []any{"threads"}},
			},
			wantErr: "connect to duckdb target",
		},
		{
			name: "unknown postgres option",
			target: &core.TargetConfig{
				Type:    "postgres",
				Host:    "localhost",
				Options: map[string]string{"bogus": "1"},
			},
			wantErr: "connect to postgres target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adp, err := adapter.Open(context.Background(), tt.target, nil)
			require.Error(t, err)
			assert.Nil(t, adp)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpen_UnknownTypeListsAdapters(t *testing.T) {
	_, err := adapter.Open(context.Background(), &core.TargetConfig{Type: "unknown_adapter"}, nil)

	var unknownErr *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "unknown_adapter", unknownErr.Type)
	assert.Subset(t, unknownErr.Available, []string{"duckdb", "postgres"})
}
