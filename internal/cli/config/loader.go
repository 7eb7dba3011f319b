package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// envPrefix is the prefix of leapquery's own environment variables.
// A double underscore separates nested keys: LEAPQUERY_UI__PORT is ui.port.
const envPrefix = "LEAPQUERY_"

// dbEnv maps the connection variables of the original deployment to
// target keys.
var dbEnv = map[string]string{
	"DB_HOST":     "target.host",
	"DB_PORT":     "target.port",
	"DB_NAME":     "target.database",
	"DB_USER":     "target.user",
	"DB_PASSWORD": "target.password",
}

// flagKeys maps flag names to config keys where they differ from the
// snake_case form of the flag name.
var flagKeys = map[string]string{
	"port":          "ui.port",
	"open":          "ui.auto_open",
	"watch":         "ui.watch",
	"max-rows":      "ui.max_rows",
	"query-timeout": "ui.query_timeout",
	"format":        "output",
	"history":       "history.enabled",
	"history-path":  "history.path",
	"database":      "target.database",
	"target-type":   "target.type",
}

// Package-level config file tracking
var (
	configFileUsed string
	currentConfig  *Config
)

// ResetConfig clears the package state. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithTarget(cfgFile, "", flags)
}

// LoadConfigWithTarget loads configuration, selecting the target of the
// named environment when targetOverride is set.
func LoadConfigWithTarget(cfgFile string, targetOverride string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. LEAPQUERY_* environment variables
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. DB_* connection variables
	if err := k.Load(env.Provider("DB_", ".", func(s string) string {
		return dbEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load database env vars: %w", err)
	}

	// 5. Explicitly set flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.ProjectRoot = projectRoot(configFileUsed)

	envForTarget := cfg.Environment
	if targetOverride != "" {
		envForTarget = targetOverride
	}
	if envCfg, ok := cfg.Environments[envForTarget]; ok && envCfg.Target != nil {
		cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
	}

	if cfg.Target == nil {
		cfg.Target = &core.TargetConfig{}
	}
	if cfg.Target.Type == "" {
		cfg.Target.Type = inferTargetType(cfg.Target)
	}
	sharedcfg.ApplyTargetDefaults(cfg.Target)
	expandTargetEnvVars(cfg.Target)
	if cfg.Target.Type == "duckdb" && cfg.Target.Database != "" && cfg.Target.Database != ":memory:" {
		cfg.Target.Database = resolvePathRelativeTo(cfg.Target.Database, cfg.ProjectRoot)
	}

	cfg.History.Path = resolvePathRelativeTo(cfg.History.Path, cfg.ProjectRoot)
	sharedcfg.ApplyExplorerDefaults(&cfg.Explorer)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// inferTargetType picks postgres when connection details are present,
// otherwise an in-memory DuckDB.
func inferTargetType(t *core.TargetConfig) string {
	if t.Host != "" || t.User != "" {
		return "postgres"
	}
	if t.Database == "" {
		t.Database = ":memory:"
	}
	return "duckdb"
}

// findConfigFile finds the config file to use.
// Priority: explicit path > leapquery.yaml > leapquery.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return sharedcfg.FindConfigFile(cwd)
}

func projectRoot(configFile string) string {
	if configFile != "" {
		if abs, err := filepath.Abs(configFile); err == nil {
			return filepath.Dir(abs)
		}
	}
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns; unset variables are left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

func expandTargetEnvVars(t *core.TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *core.TargetConfig) *core.TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	merged.Params = make(map[string]any, len(base.Params)+len(override.Params))
	for k, v := range base.Options {
		merged.Options[k] = v
	}
	for k, v := range base.Params {
		merged.Params[k] = v
	}

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}
	for k, v := range override.Params {
		merged.Params[k] = v
	}
	return &merged
}
