package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "leapquery.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leapquery.yml"

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadShortcuts reads the shortcuts section of the config file at path.
// A file without shortcuts yields an empty map.
func LoadShortcuts(path string) (map[string]query.Shortcut, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	shortcuts := map[string]query.Shortcut{}
	if err := k.Unmarshal("shortcuts", &shortcuts); err != nil {
		return nil, fmt.Errorf("unable to decode shortcuts: %w", err)
	}
	return shortcuts, nil
}

// ReloadCatalog re-reads the shortcuts from path into c.
func ReloadCatalog(c *Catalog, path string) error {
	shortcuts, err := LoadShortcuts(path)
	if err != nil {
		return err
	}
	return c.Replace(shortcuts)
}
