package cards

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
)

// SetupRoutes registers the explorer feature routes.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps, common.NewWorkspaces[Deck](deps.MaxSessions, deps.SessionTTL))

	router.Get("/explorer", handlers.ExplorerPage)

	router.Route("/api/cards", func(r chi.Router) {
		r.Post("/", handlers.AddCardSSE)
		r.Delete("/{id}", handlers.RemoveCardSSE)
		r.Post("/{id}/run", handlers.RunCardSSE)
		r.Get("/{id}/download", handlers.Download)
	})

	return nil
}
