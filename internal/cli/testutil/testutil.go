// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapquery/internal/testutil"
	"github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/stretchr/testify/require"
)

// ProjectConfig is the leapquery.yaml written by SetupTestProject.
const ProjectConfig = `target:
  type: duckdb
  database: shop.duckdb
ui:
  watch: false
explorer:
  default_query: SELECT * FROM orders;
  contains_columns: [status]
  ranges:
    - column: amount
      min: 0
      max: 1000
  non_digit_columns: [code]
shortcuts:
  Shipped orders:
    table: orders
    columns: [id, status]
    where:
      column: status
      operator: CONTAINS
      value: ship
    limit: 10
  Customers:
    table: customers
`

// Project is a temporary LeapQuery project.
type Project struct {
	Dir        string
	ConfigPath string
	Database   string
}

// HistoryPath returns the default history database of the project.
func (p *Project) HistoryPath() string {
	return filepath.Join(p.Dir, ".leapquery", "history.db")
}

// SetupTestProject creates a temporary project: a DuckDB file seeded with
// testutil.ShopSchema and a leapquery.yaml pointing at it.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	tmpDir := t.TempDir()
	p := &Project{
		Dir:        tmpDir,
		ConfigPath: filepath.Join(tmpDir, "leapquery.yaml"),
		Database:   filepath.Join(tmpDir, "shop.duckdb"),
	}

	adp := duckdb.New(testutil.NewTestLogger(t))
	ctx := context.Background()
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Type: "duckdb", Path: p.Database}))
	for _, stmt := range testutil.ShopSchema {
		require.NoError(t, adp.Exec(ctx, stmt))
	}
	require.NoError(t, adp.Close())

	require.NoError(t, os.WriteFile(p.ConfigPath, []byte(ProjectConfig), 0o600))
	return p
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertMarkdownTable checks that s is a markdown table with the given
// header cells.
func AssertMarkdownTable(t *testing.T, s string, headers ...string) {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected a markdown table, got: %q", s)
	}
	for _, h := range headers {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header %q missing from %q", h, lines[0])
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "|") || !strings.Contains(lines[1], "-") {
		t.Errorf("second line is not a markdown separator: %q", lines[1])
	}
}
