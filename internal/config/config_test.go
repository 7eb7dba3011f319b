package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/postgres"
)

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  *core.TargetConfig
		wantErr string
	}{
		{
			name:   "duckdb",
			target: &core.TargetConfig{Type: "duckdb", Database: ":memory:"},
		},
		{
			name:   "complete postgres",
			target: &core.TargetConfig{Type: "postgres", Host: "db", Database: "shop", User: "ro", Port: 5432},
		},
		{
			name:    "nil",
			target:  nil,
			wantErr: "target is required",
		},
		{
			name:    "missing type",
			target:  &core.TargetConfig{},
			wantErr: "target type is required",
		},
		{
			name:    "postgres lists missing fields",
			target:  &core.TargetConfig{Type: "postgres", Host: "db"},
			wantErr: "postgres target is missing: database, user",
		},
		{
			name:    "port out of range",
			target:  &core.TargetConfig{Type: "duckdb", Port: 70000},
			wantErr: "target port 70000 is out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTarget_UnknownType(t *testing.T) {
	err := ValidateTarget(&core.TargetConfig{Type: "oracle"})
	var unknownErr *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, unknownErr.Available, "postgres")
}

func TestApplyTargetDefaults(t *testing.T) {
	pg := &core.TargetConfig{Type: "postgres"}
	ApplyTargetDefaults(pg)
	assert.Equal(t, "public", pg.Schema)
	assert.Equal(t, 5432, pg.Port)

	duck := &core.TargetConfig{Type: "duckdb"}
	ApplyTargetDefaults(duck)
	assert.Equal(t, "main", duck.Schema)
	assert.Equal(t, 0, duck.Port)

	ApplyTargetDefaults(nil)
}

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(map[string]query.Shortcut{
		"Shipped": {Table: "orders", Where: &query.ShortcutWhere{Column: "status", Operator: "CONTAINS", Value: "ship"}},
		"Big":     {Table: "orders", Limit: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"None", "Big", "Shipped"}, c.Names())
	assert.Equal(t, 2, c.Len())

	sc, ok := c.Get("Big")
	require.True(t, ok)
	assert.Equal(t, 10, sc.Limit)

	none, ok := c.Get("None")
	require.True(t, ok)
	assert.Equal(t, query.Shortcut{}, none)

	_, ok = c.Get("ghost")
	assert.False(t, ok)
}

func TestCatalog_ReplaceRejectsInvalid(t *testing.T) {
	c, err := NewCatalog(map[string]query.Shortcut{"Big": {Table: "orders"}})
	require.NoError(t, err)

	err = c.Replace(map[string]query.Shortcut{"Bad": {Table: ""}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `shortcut "Bad"`)
	assert.Equal(t, []string{"None", "Big"}, c.Names(), "failed replace keeps previous shortcuts")

	err = c.Replace(map[string]query.Shortcut{"None": {Table: "orders"}})
	assert.ErrorContains(t, err, "reserved")

	err = c.Replace(map[string]query.Shortcut{"Op": {Table: "t", Where: &query.ShortcutWhere{Column: "a", Operator: "~"}}})
	assert.ErrorContains(t, err, "not a supported operator")
}

func TestLoadShortcuts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `
shortcuts:
  Shipped orders:
    table: orders
    columns: [id, status]
    where:
      column: status
      operator: CONTAINS
      value: ship
    limit: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	assert.Equal(t, path, FindConfigFile(dir))

	shortcuts, err := LoadShortcuts(path)
	require.NoError(t, err)
	require.Contains(t, shortcuts, "Shipped orders")
	sc := shortcuts["Shipped orders"]
	assert.Equal(t, []string{"id", "status"}, sc.Columns)
	require.NotNil(t, sc.Where)
	assert.Equal(t, "ship", sc.Where.Value)
	assert.Equal(t, 50, sc.Limit)

	c, err := NewCatalog(nil)
	require.NoError(t, err)
	require.NoError(t, ReloadCatalog(c, path))
	assert.Equal(t, []string{"None", "Shipped orders"}, c.Names())
}

func TestLoadShortcuts_MissingFile(t *testing.T) {
	_, err := LoadShortcuts(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Equal(t, "", FindConfigFile(t.TempDir()))
}

func TestExplorerConfig(t *testing.T) {
	e := ExplorerConfig{
		Ranges:          []RangeConfig{{Column: "amount", Min: 0, Max: 500}},
		NonDigitColumns: []string{"code"},
	}
	ApplyExplorerDefaults(&e)
	assert.Equal(t, DefaultExplorerQuery, e.DefaultQuery)

	specs := e.RangeSpecs()
	require.Len(t, specs, 1)
	assert.False(t, specs[0].Active())
	assert.Equal(t, []string{"code"}, e.BuilderOptions().NonDigitColumns)
}
