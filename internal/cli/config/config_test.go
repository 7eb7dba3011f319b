package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/postgres"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapquery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "target:\n  type: duckdb\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, "main", cfg.Target.Schema)
	assert.Equal(t, 8765, cfg.UI.Port)
	assert.True(t, cfg.UI.Watch)
	assert.Equal(t, 30*time.Second, cfg.UI.QueryTimeout)
	assert.Equal(t, 20, cfg.UI.MaxFilters)
	assert.Equal(t, 600, cfg.UI.RateLimit)
	assert.Equal(t, 1000, cfg.UI.MaxSessions)
	assert.Equal(t, 12*time.Hour, cfg.UI.SessionTTL)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), ".leapquery", "history.db"), cfg.History.Path)
	assert.NotEmpty(t, cfg.Explorer.DefaultQuery)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FullFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `
target:
  type: postgres
  host: db.internal
  database: shop
  user: reader
  password: ${TEST_LQ_PASSWORD}
  options:
    sslmode: require
ui:
  port: 9000
  query_timeout: 5s
  max_rows: 500
  max_sessions: 50
  session_ttl: 30m
explorer:
  default_query: SELECT * FROM orders;
  contains_columns: [name, city]
  ranges:
    - column: amount
      min: 0
      max: 1000
  non_digit_columns: [code]
shortcuts:
  Shipped:
    table: orders
    where:
      column: status
      operator: CONTAINS
      value: ship
`)
	t.Setenv("TEST_LQ_PASSWORD", "s3cret")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "public", cfg.Target.Schema)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, "require", cfg.Target.Options["sslmode"])
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.Equal(t, 5*time.Second, cfg.UI.QueryTimeout)
	assert.Equal(t, 500, cfg.UI.MaxRows)
	assert.Equal(t, 50, cfg.UI.MaxSessions)
	assert.Equal(t, 30*time.Minute, cfg.UI.SessionTTL)
	assert.Equal(t, []string{"name", "city"}, cfg.Explorer.ContainsColumns)
	require.Len(t, cfg.Explorer.Ranges, 1)
	assert.InDelta(t, 1000.0, cfg.Explorer.Ranges[0].Max, 0)
	assert.Equal(t, []string{"code"}, cfg.Explorer.NonDigitColumns)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"None", "Shipped"}, catalog.Names())
}

func TestLoadConfig_DBEnvSelectsPostgres(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "ui:\n  watch: false\n")
	t.Setenv("DB_HOST", "pg.local")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "analytics")
	t.Setenv("DB_USER", "analyst")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "pg.local", cfg.Target.Host)
	assert.Equal(t, 6543, cfg.Target.Port)
	assert.Equal(t, "analytics", cfg.Target.Database)
	assert.Equal(t, "analyst", cfg.Target.User)
	assert.Equal(t, "pw", cfg.Target.Password)
}

func TestLoadConfig_NoTargetIsInMemoryDuckDB(t *testing.T) {
	ResetConfig()
	cfg, err := LoadConfig(writeConfig(t, "log_level: info\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, ":memory:", cfg.Target.Database)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name:    "unknown target type",
			content: "target:\n  type: mysql\n",
			errSub:  "unknown adapter type",
		},
		{
			name:    "postgres missing fields",
			content: "target:\n  type: postgres\n  host: db\n",
			errSub:  "missing: database, user",
		},
		{
			name:    "bad log level",
			content: "log_level: loud\n",
			errSub:  "log_level must be one of",
		},
		{
			name:    "inverted range bounds",
			content: "explorer:\n  ranges:\n    - column: amount\n      min: 10\n      max: 1\n",
			errSub:  "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestLoadConfigWithTarget_Environments(t *testing.T) {
	cfgPath := writeConfig(t, `
target:
  type: duckdb
  database: dev.duckdb
environments:
  staging:
    target:
      database: staging.duckdb
      schema: staging
`)
	dir := filepath.Dir(cfgPath)

	ResetConfig()
	cfg, err := LoadConfigWithTarget(cfgPath, "", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dev.duckdb"), cfg.Target.Database)

	ResetConfig()
	cfg, err = LoadConfigWithTarget(cfgPath, "staging", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "staging.duckdb"), cfg.Target.Database)
	assert.Equal(t, "staging", cfg.Target.Schema)

	ResetConfig()
	cfg, err = LoadConfigWithTarget(cfgPath, "nonexistent", nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Target.Type)
}

func TestLoadConfig_Precedence(t *testing.T) {
	cfgPath := writeConfig(t, "target:\n  type: duckdb\nui:\n  port: 1111\n")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPQUERY_UI__PORT", "2222")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 2222, cfg.UI.Port)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPQUERY_UI__PORT", "2222")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("port", 0, "port")
		require.NoError(t, flags.Set("port", "3333"))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)
		assert.Equal(t, 3333, cfg.UI.Port)
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPQUERY_UI__PORT", "2222")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("port", 0, "port")

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)
		assert.Equal(t, 2222, cfg.UI.Port)
	})

	t.Run("top-level env key", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPQUERY_LOG_LEVEL", "debug")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_LQ_VAR", "value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_LQ_VAR}", "value"},
		{"prefix-${TEST_LQ_VAR}-suffix", "prefix-value-suffix"},
		{"${TEST_LQ_UNSET}", "${TEST_LQ_UNSET}"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	base := &core.TargetConfig{
		Type:    "postgres",
		Host:    "base",
		Port:    5432,
		Options: map[string]string{"sslmode": "disable", "connect_timeout": "5"},
	}
	override := &core.TargetConfig{
		Host:    "override",
		Options: map[string]string{"sslmode": "require"},
	}

	merged := MergeTargetConfig(base, override)
	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "override", merged.Host)
	assert.Equal(t, 5432, merged.Port)
	assert.Equal(t, map[string]string{"sslmode": "require", "connect_timeout": "5"}, merged.Options)
	assert.Equal(t, "disable", base.Options["sslmode"], "base must not be mutated")

	assert.Same(t, override, MergeTargetConfig(nil, override))
	assert.Same(t, base, MergeTargetConfig(base, nil))
}
