package core

import "context"

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	SchemaProvider
	Executor

	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// DescribeColumns returns the type and nullability of each column of
	// table, in ordinal order.
	DescribeColumns(ctx context.Context, table string) ([]Column, error)
}

// SchemaProvider lists the tables and columns a user can query.
type SchemaProvider interface {
	// ListTables returns the base tables of the default schema, sorted.
	ListTables(ctx context.Context) ([]string, error)

	// ListColumns returns the column names of table in ordinal order.
	ListColumns(ctx context.Context, table string) ([]string, error)
}

// Executor runs arbitrary statements and materializes their rows.
type Executor interface {
	// Execute runs stmt and returns at most maxRows rows (0 means no cap).
	Execute(ctx context.Context, stmt string, maxRows int) (*Result, error)
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// Column describes a column of a database table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}
