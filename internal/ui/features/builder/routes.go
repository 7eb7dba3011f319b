package builder

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
)

// SetupRoutes registers the builder feature routes.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.BuilderPage)

	router.Route("/api/builder", func(r chi.Router) {
		r.Post("/shortcut", handlers.ShortcutSSE)
		r.Post("/table", handlers.TableSSE)
		r.Post("/preview", handlers.PreviewSSE)
		r.Post("/run", handlers.RunSSE)
		r.Get("/download", handlers.Download)
		r.Get("/updates", handlers.Updates)
	})

	return nil
}
