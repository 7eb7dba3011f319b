package postgres

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass application_name=leapquery",
		},
		{
			name: "with options",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require", "connect_timeout": "5", "application_name": "explorer"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin connect_timeout=5 application_name=explorer",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable application_name=leapquery",
		},
		{
			name: "password with spaces and quotes",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				Username: "analyst",
				Password: `it's secret`,
			},
			expected: `host=db.example.com port=5433 dbname=analytics sslmode=disable user=analyst password='it\'s secret' application_name=leapquery`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseOptions(tt.config.Options)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config, opts))
		})
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, "disable", opts.SSLMode)
	assert.Equal(t, "leapquery", opts.ApplicationName)

	opts, err = ParseOptions(map[string]string{"connect_timeout": "10"})
	require.NoError(t, err)
	assert.Equal(t, 10, opts.ConnectTimeout)

	_, err = ParseOptions(map[string]string{"connect_timeout": "soon"})
	require.Error(t, err)

	_, err = ParseOptions(map[string]string{"sslrootcert": "/tmp/ca.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postgres options")
}

func TestDSNValue(t *testing.T) {
	assert.Equal(t, "plain", dsnValue("plain"))
	assert.Equal(t, "''", dsnValue(""))
	assert.Equal(t, `'a b'`, dsnValue("a b"))
	assert.Equal(t, `'c:\\x'`, dsnValue(`c:\x`))
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp, "New() should return non-nil adapter")
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "public", adp.DefaultSchema)

	var _ adapter.Adapter = adp
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "execute without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Execute(ctx, "SELECT 1", 10)
				return err
			},
		},
		{
			name: "list tables without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.ListTables(ctx)
				return err
			},
		},
		{
			name: "list columns without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.ListColumns(ctx, "users")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			require.ErrorIs(t, err, adapter.ErrNotConnected)
		})
	}
}

func TestAdapter_Connect_InvalidOptions(t *testing.T) {
	err := New(nil).Connect(context.Background(), adapter.Config{
		Database: "x",
		Options:  map[string]string{"bogus": "1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postgres options")
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("postgres"), "postgres adapter should be registered")

	factory, ok := adapter.Get("postgres")
	require.True(t, ok, "should be able to get postgres factory")

	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "public", pg.DefaultSchema)
}

func TestAdapter_Close(t *testing.T) {
	adp := New(nil)
	assert.NoError(t, adp.Close())
}
