// Package postgres provides the PostgreSQL adapter for leapquery.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/leapquery/pkg/adapter"
)

const defaultSchema = "public"

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:        logger,
			DefaultSchema: defaultSchema,
			Placeholder:   adapter.DollarPlaceholder,
		},
	}
}

// Options are the driver options read from target.options.
type Options struct {
	SSLMode         string `mapstructure:"sslmode"`
	ConnectTimeout  int    `mapstructure:"connect_timeout"`
	ApplicationName string `mapstructure:"application_name"`
}

// ParseOptions decodes target options. Unknown keys are rejected.
func ParseOptions(raw map[string]string) (*Options, error) {
	opts := &Options{SSLMode: "disable", ApplicationName: "leapquery"}
	if len(raw) == 0 {
		return opts, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid postgres options: %w", err)
	}
	return opts, nil
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	opts, err := ParseOptions(cfg.Options)
	if err != nil {
		return err
	}
	if cfg.Schema != "" {
		a.DefaultSchema = cfg.Schema
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.String("schema", a.DefaultSchema))

	db, err := sql.Open("pgx", buildPostgresDSN(cfg, opts))
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a key=value PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config, opts *Options) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	parts := []string{
		"host=" + dsnValue(host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + dsnValue(cfg.Database),
		"sslmode=" + dsnValue(opts.SSLMode),
	}
	if cfg.Username != "" {
		parts = append(parts, "user="+dsnValue(cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+dsnValue(cfg.Password))
	}
	if opts.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", opts.ConnectTimeout))
	}
	if opts.ApplicationName != "" {
		parts = append(parts, "application_name="+dsnValue(opts.ApplicationName))
	}
	return strings.Join(parts, " ")
}

// dsnValue quotes v when it is empty or contains spaces, quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
