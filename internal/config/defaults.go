package config

import (
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Default configuration values.
const (
	DefaultUIPort        = 8765
	DefaultQueryTimeout  = 30 * time.Second
	DefaultMaxRows       = 10000
	DefaultMaxFilters    = 20
	DefaultRateLimit     = 600
	DefaultMaxSessions   = 1000
	DefaultSessionTTL    = 12 * time.Hour
	DefaultHistoryPath   = ".leapquery/history.db"
	DefaultExplorerQuery = "SELECT table_schema, table_name FROM information_schema.tables"
	DefaultMetadataQuery = "SELECT * FROM information_schema.columns"
)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	switch dbType {
	case "postgres":
		return "public"
	default:
		return "main"
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// ApplyExplorerDefaults fills unset explorer values.
func ApplyExplorerDefaults(e *ExplorerConfig) {
	if e == nil {
		return
	}
	if e.DefaultQuery == "" {
		e.DefaultQuery = DefaultExplorerQuery
	}
}
