package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
)

// MissingFieldsError lists the required target fields that are empty.
type MissingFieldsError struct {
	Type   string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s target is missing: %s\nHint: set them under target: in leapquery.yaml or via DB_HOST, DB_NAME, DB_USER",
		e.Type, strings.Join(e.Fields, ", "))
}

// ValidateTarget checks the target type against the adapter registry and
// the presence of the fields that type needs.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return fmt.Errorf("target is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if t.Type == "postgres" {
		var missing []string
		if t.Host == "" {
			missing = append(missing, "host")
		}
		if t.Database == "" {
			missing = append(missing, "database")
		}
		if t.User == "" {
			missing = append(missing, "user")
		}
		if len(missing) > 0 {
			return &MissingFieldsError{Type: t.Type, Fields: missing}
		}
	}

	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d is out of range", t.Port)
	}
	return nil
}
