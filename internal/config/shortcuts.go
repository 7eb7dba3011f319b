package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapquery/internal/validation"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

// Catalog is the set of configured shortcuts. It is safe for concurrent
// use and can be replaced wholesale when the config file changes.
type Catalog struct {
	mu        sync.RWMutex
	shortcuts map[string]query.Shortcut
}

// NewCatalog validates shortcuts and returns a catalog holding them.
func NewCatalog(shortcuts map[string]query.Shortcut) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(shortcuts); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace validates shortcuts and swaps them in. On error the catalog is
// left unchanged.
func (c *Catalog) Replace(shortcuts map[string]query.Shortcut) error {
	next := make(map[string]query.Shortcut, len(shortcuts))
	for name, sc := range shortcuts {
		if name == query.NoShortcut {
			return fmt.Errorf("shortcut name %q is reserved", name)
		}
		if verr := validation.ValidateStruct(&sc); verr != nil {
			return fmt.Errorf("shortcut %q: %w", name, verr)
		}
		next[name] = sc
	}

	c.mu.Lock()
	c.shortcuts = next
	c.mu.Unlock()
	return nil
}

// Get returns the named shortcut. The empty name and NoShortcut resolve to
// the empty shortcut.
func (c *Catalog) Get(name string) (query.Shortcut, bool) {
	if name == "" || name == query.NoShortcut {
		return query.Shortcut{}, true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc, ok := c.shortcuts[name]
	return sc, ok
}

// Names returns NoShortcut followed by the configured names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.shortcuts))
	for name := range c.shortcuts {
		names = append(names, name)
	}
	c.mu.RUnlock()

	sort.Strings(names)
	return append([]string{query.NoShortcut}, names...)
}

// Len returns the number of configured shortcuts, excluding NoShortcut.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.shortcuts)
}
