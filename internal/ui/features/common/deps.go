package common

import (
	"log/slog"
	"time"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/runner"
	"github.com/leapstack-labs/leapquery/internal/schema"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
)

// Deps are the services the feature handlers share.
type Deps struct {
	Schema       *schema.Cache
	Runner       *runner.Runner
	History      history.Reader // nil when history is disabled
	Catalog      *config.Catalog
	Explorer     config.ExplorerConfig
	MaxFilters   int
	Notifier     *notifier.Notifier
	SessionStore sessions.Store

	// MaxSessions and SessionTTL bound the server-side state kept per
	// browser session. Zero values select the defaults.
	MaxSessions int
	SessionTTL  time.Duration
	IsDev       bool
	Logger      *slog.Logger
}

// Log returns d.Logger, or a discard logger when it is nil.
func (d *Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
