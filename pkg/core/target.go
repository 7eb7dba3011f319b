package core

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type" yaml:"type" validate:"required"` // postgres, duckdb

	// File-based databases (DuckDB)
	Database string `koanf:"database" yaml:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host" yaml:"host"`
	Port     int    `koanf:"port" yaml:"port" validate:"gte=0,lte=65535"`
	User     string `koanf:"user" yaml:"user"`
	Password string `koanf:"password" yaml:"password"`

	Schema string `koanf:"schema" yaml:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options" yaml:"options"`

	// Params holds adapter-specific configuration (e.g. DuckDB extensions, settings)
	Params map[string]any `koanf:"params" yaml:"params"`
}

// AdapterConfig converts the target to the adapter connection config.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	cfg := AdapterConfig{
		Type:     t.Type,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
	if t.Type == "duckdb" {
		cfg.Path = t.Database
	}
	return cfg
}
