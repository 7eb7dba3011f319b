// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	builderFeature "github.com/leapstack-labs/leapquery/internal/ui/features/builder"
	cardsFeature "github.com/leapstack-labs/leapquery/internal/ui/features/cards"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
	runsFeature "github.com/leapstack-labs/leapquery/internal/ui/features/runs"
	"github.com/leapstack-labs/leapquery/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// Options configures the routes that are not part of a feature.
type Options struct {
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// RequestsPerMinute limits feature requests per client IP. Zero
	// disables the limit.
	RequestsPerMinute int
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps *common.Deps, opts Options) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler(deps.Log()))

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	var err error
	router.Group(func(r chi.Router) {
		if opts.RequestsPerMinute > 0 {
			r.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
		}

		if err = builderFeature.SetupRoutes(r, deps); err != nil {
			return
		}
		if err = cardsFeature.SetupRoutes(r, deps); err != nil {
			return
		}
		err = runsFeature.SetupRoutes(r, deps)
	})
	return err
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
