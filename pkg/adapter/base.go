package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// ErrNotConnected is returned by operations that need an open connection.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Execute and schema listing implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// DefaultSchema is used for unqualified table names.
	DefaultSchema string
	// Placeholder formats the n-th (1-based) bind parameter. Nil means "?".
	Placeholder func(n int) string
}

// DollarPlaceholder formats PostgreSQL-style placeholders ($1, $2, ...).
func DollarPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (b *BaseSQLAdapter) placeholder(n int) string {
	if b.Placeholder == nil {
		return "?"
	}
	return b.Placeholder(n)
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Execute runs an arbitrary statement and materializes up to maxRows rows
// (0 means no cap). Database errors are returned as *core.ExecutionError.
func (b *BaseSQLAdapter) Execute(ctx context.Context, stmt string, maxRows int) (*core.Result, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	start := time.Now()
	rows, err := b.DB.QueryContext(ctx, stmt)
	if err != nil {
		return nil, &core.ExecutionError{SQL: stmt, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &core.ExecutionError{SQL: stmt, Err: err}
	}

	result := &core.Result{Columns: columns, Rows: []map[string]any{}}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if maxRows > 0 && len(result.Rows) == maxRows {
			result.Truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &core.ExecutionError{SQL: stmt, Err: err}
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if raw, ok := values[i].([]byte); ok {
				row[col] = string(raw)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.ExecutionError{SQL: stmt, Err: err}
	}

	result.Duration = time.Since(start)
	b.logger().Debug("statement executed",
		slog.Int("rows", len(result.Rows)),
		slog.Bool("truncated", result.Truncated),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses defaultSchema if not specified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, table
}

// ListTables returns the base tables of the default schema, sorted by name.
func (b *BaseSQLAdapter) ListTables(ctx context.Context) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	//nolint:gosec // Placeholders are safe - they come from the adapter
	query := fmt.Sprintf(`SELECT table_name FROM information_schema.tables WHERE table_schema = %s AND table_type = 'BASE TABLE' ORDER BY table_name`,
		b.placeholder(1))

	rows, err := b.DB.QueryContext(ctx, query, b.DefaultSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// ListColumns returns the column names of table in ordinal order. A table
// without columns, e.g. one that does not exist, yields an error.
func (b *BaseSQLAdapter) ListColumns(ctx context.Context, table string) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	schema, tableName := ParseQualifiedName(table, b.DefaultSchema)

	//nolint:gosec // Placeholders are safe - they come from the adapter
	query := fmt.Sprintf(`SELECT column_name FROM information_schema.columns WHERE table_schema = %s AND table_name = %s ORDER BY ordinal_position`,
		b.placeholder(1), b.placeholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// DescribeColumns retrieves the type and nullability of table's columns
// from information_schema.columns, in ordinal order.
func (b *BaseSQLAdapter) DescribeColumns(ctx context.Context, table string) ([]core.Column, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	schema, tableName := ParseQualifiedName(table, b.DefaultSchema)

	//nolint:gosec // Placeholders are safe - they come from the adapter
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, b.placeholder(1), b.placeholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}
