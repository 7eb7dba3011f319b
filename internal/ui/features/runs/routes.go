package runs

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
)

// SetupRoutes registers the query history routes.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/history", handlers.RunsPage)

	router.Route("/api/history", func(r chi.Router) {
		r.Post("/", handlers.RunsListSSE)
		r.Get("/updates", handlers.Updates)
		r.Get("/{id}", handlers.RunDetailSSE)
	})

	return nil
}
