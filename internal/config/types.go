// Package config holds the configuration types shared by the CLI and the
// UI server, the target validation rules, and the reloadable shortcut
// catalog. Loading and layering lives in internal/cli/config.
package config

import "github.com/leapstack-labs/leapquery/pkg/query"

// ExplorerConfig configures the multi-card explorer page.
type ExplorerConfig struct {
	// DefaultQuery pre-fills the initial card.
	DefaultQuery string `koanf:"default_query" yaml:"default_query"`
	// ContainsColumns get a contains filter input on every card.
	ContainsColumns []string `koanf:"contains_columns" yaml:"contains_columns"`
	// Ranges get a numeric range input on every card.
	Ranges []RangeConfig `koanf:"ranges" yaml:"ranges" validate:"dive"`
	// NonDigitColumns are compared by their digits only in range filters.
	NonDigitColumns []string `koanf:"non_digit_columns" yaml:"non_digit_columns"`
}

// RangeConfig declares a range filter and the bounds the UI offers.
type RangeConfig struct {
	Column string  `koanf:"column" yaml:"column" validate:"required"`
	Min    float64 `koanf:"min" yaml:"min"`
	Max    float64 `koanf:"max" yaml:"max" validate:"gtefield=Min"`
}

// BuilderOptions returns the query builder options for this explorer.
func (e ExplorerConfig) BuilderOptions() query.Options {
	return query.Options{NonDigitColumns: e.NonDigitColumns}
}

// RangeSpecs returns one unset range filter per configured range.
func (e ExplorerConfig) RangeSpecs() []query.RangeFilterSpec {
	specs := make([]query.RangeFilterSpec, len(e.Ranges))
	for i, r := range e.Ranges {
		specs[i] = query.RangeFilterSpec{Column: r.Column, Min: r.Min, Max: r.Max}
	}
	return specs
}

// HistoryConfig configures the query history store.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Path    string `koanf:"path" yaml:"path"`
}
