// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/internal/runner"
	"github.com/leapstack-labs/leapquery/internal/schema"
	"github.com/leapstack-labs/leapquery/internal/testutil"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

// TestExplorer is the explorer configuration used by handler tests.
var TestExplorer = config.ExplorerConfig{
	DefaultQuery:    "SELECT id, status, amount FROM orders;",
	ContainsColumns: []string{"status"},
	Ranges:          []config.RangeConfig{{Column: "amount", Min: 0, Max: 1000}},
	NonDigitColumns: []string{"code"},
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Deps    *common.Deps
	Adapter core.Adapter
	History *history.SQLiteStore
	Metrics *metrics.Metrics
}

// SetupTestFixture wires the handlers' dependencies around an in-memory
// DuckDB seeded with testutil.ShopSchema.
func SetupTestFixture(t *testing.T, shortcuts map[string]query.Shortcut) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	adp := testutil.NewDuckDB(t, testutil.ShopSchema...)

	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	catalog, err := config.NewCatalog(shortcuts)
	require.NoError(t, err)

	m := metrics.New(nil)

	return &TestFixture{
		Deps: &common.Deps{
			Schema: schema.NewCache(adp, m),
			Runner: runner.New(runner.Config{
				Executor: adp,
				MaxRows:  1000,
				Metrics:  m,
				History:  store,
				Logger:   logger,
			}),
			History:      store,
			Catalog:      catalog,
			Explorer:     TestExplorer,
			MaxFilters:   5,
			Notifier:     notifier.New(),
			SessionStore: NewTestSessionStore(),
			Logger:       logger,
		},
		Adapter: adp,
		History: store,
		Metrics: m,
	}
}

// SignalsRequest builds a datastar request carrying signals as its JSON body.
func SignalsRequest(t *testing.T, method, target string, signals any) *http.Request {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
