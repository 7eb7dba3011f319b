package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapquery/internal/ui/features"
)

func newRouter(t *testing.T, opts Options) (chi.Router, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, nil)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Deps, opts))
	return r, fixture
}

func TestSetupRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	r, _ := newRouter(t, Options{Metrics: metrics})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/explorer", http.StatusOK},
		{http.MethodGet, "/history", http.StatusOK},
		{http.MethodGet, "/api/history/unknown-id", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/static/app.css", http.StatusOK},
		{http.MethodGet, "/api/cards/none/download", http.StatusNotFound},
		{http.MethodGet, "/api/builder/run", http.StatusMethodNotAllowed},
		{http.MethodGet, "/reload", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSetupRoutes_NoMetrics(t *testing.T) {
	r, _ := newRouter(t, Options{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetupRoutes_RateLimit(t *testing.T) {
	r, _ := newRouter(t, Options{RequestsPerMinute: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/explorer", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Static assets are not limited.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
