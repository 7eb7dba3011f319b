// Package config loads leapquery's CLI configuration.
//
// Values are layered with koanf, lowest precedence first: built-in
// defaults, leapquery.yaml, LEAPQUERY_* environment variables, the
// DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD variables, and finally
// flags that were explicitly set on the command line.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// ExplorerConfig is an alias for the shared explorer configuration.
type ExplorerConfig = sharedcfg.ExplorerConfig

// HistoryConfig is an alias for the shared history configuration.
type HistoryConfig = sharedcfg.HistoryConfig

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port" validate:"gte=1,lte=65535"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	QueryTimeout  time.Duration `koanf:"query_timeout" validate:"gte=0"`
	MaxRows       int           `koanf:"max_rows" validate:"gte=0"`
	MaxFilters    int           `koanf:"max_filters" validate:"gte=1"`
	SessionSecret string        `koanf:"session_secret"`
	MaxSessions   int           `koanf:"max_sessions" validate:"gte=1"`
	SessionTTL    time.Duration `koanf:"session_ttl" validate:"gt=0"`

	// RateLimit is the number of requests per minute allowed per client IP.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
}

// Config holds all CLI configuration options.
type Config struct {
	Target       *TargetConfig             `koanf:"target"`
	UI           UIConfig                  `koanf:"ui"`
	Explorer     ExplorerConfig            `koanf:"explorer"`
	Shortcuts    map[string]query.Shortcut `koanf:"shortcuts"`
	History      HistoryConfig             `koanf:"history"`
	Environment  string                    `koanf:"environment"`
	Environments map[string]EnvConfig      `koanf:"environments"`
	LogLevel     string                    `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string                    `koanf:"log_format" validate:"oneof=text json"`
	OutputFormat string                    `koanf:"output" validate:"oneof=auto table json csv md"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultOutput    = "auto" // TTY=table, otherwise markdown
)

func defaults() map[string]any {
	return map[string]any{
		"ui.port":                sharedcfg.DefaultUIPort,
		"ui.auto_open":           true,
		"ui.watch":               true,
		"ui.query_timeout":       sharedcfg.DefaultQueryTimeout,
		"ui.max_rows":            sharedcfg.DefaultMaxRows,
		"ui.max_filters":         sharedcfg.DefaultMaxFilters,
		"ui.rate_limit":          sharedcfg.DefaultRateLimit,
		"ui.max_sessions":        sharedcfg.DefaultMaxSessions,
		"ui.session_ttl":         sharedcfg.DefaultSessionTTL,
		"explorer.default_query": sharedcfg.DefaultExplorerQuery,
		"history.enabled":        true,
		"history.path":           sharedcfg.DefaultHistoryPath,
		"log_level":              DefaultLogLevel,
		"log_format":             DefaultLogFormat,
		"output":                 DefaultOutput,
	}
}
