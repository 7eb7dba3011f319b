package config

import (
	"fmt"

	sharedcfg "github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/internal/validation"
)

// Validate checks the loaded configuration. The target is checked against
// the adapter registry; shortcuts are checked by NewCatalog.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}
	if err := sharedcfg.ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

// Catalog builds the shortcut catalog from the configured shortcuts.
func (c *Config) Catalog() (*sharedcfg.Catalog, error) {
	return sharedcfg.NewCatalog(c.Shortcuts)
}
