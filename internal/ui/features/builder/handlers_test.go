package builder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/ui/features"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, map[string]query.Shortcut{
		"Shipped orders": {
			Table:   "orders",
			Columns: []string{"id", "status", "missing"},
			Where:   &query.ShortcutWhere{Column: "status", Operator: "contains", Value: "ship"},
			Limit:   5,
		},
		"Missing table": {
			Table: "archive",
		},
	})
	return NewHandlers(fixture.Deps), fixture
}

func defaultSignals() Signals {
	return Signals{
		Shortcut:     query.NoShortcut,
		Table:        "orders",
		Operator:     "=",
		LimitEnabled: true,
		Limit:        100,
	}
}

func TestBuilderPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.BuilderPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Query Builder - LeapQuery</title>",
		"/api/builder/updates",
		`<option value="None" selected>None</option>`,
		`<option value="Shipped orders">Shipped orders</option>`,
		`<option value="customers" selected>customers</option>`,
		`<option value="city" selected>city</option>`,
		"SELECT id, name, city FROM customers LIMIT 100;",
		`<option value="CONTAINS">Contains</option>`,
		`id="builder-results"`,
		`<a class="btn btn-success" href="/api/builder/download">Download CSV</a>`,
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
}

func TestShortcutSSE(t *testing.T) {
	tests := []struct {
		name     string
		shortcut string
		wantBody []string
	}{
		{
			name:     "shortcut fills the form",
			shortcut: "Shipped orders",
			wantBody: []string{
				"datastar-patch-elements",
				"datastar-patch-signals",
				`<option value="orders" selected>orders</option>`,
				`<option value="status" selected>status</option>`,
				"SELECT id, status FROM orders WHERE status::text ILIKE &#39;%ship%&#39; LIMIT 5;",
			},
		},
		{
			name:     "missing table falls back to the first table",
			shortcut: "Missing table",
			wantBody: []string{
				`<option value="customers" selected>customers</option>`,
				"SELECT id, name, city FROM customers LIMIT 100;",
			},
		},
		{
			name:     "none resets the form",
			shortcut: query.NoShortcut,
			wantBody: []string{"SELECT id, name, city FROM customers LIMIT 100;"},
		},
		{
			name:     "unknown shortcut",
			shortcut: "Nope",
			wantBody: []string{"unknown shortcut &#34;Nope&#34;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)
			s := defaultSignals()
			s.Shortcut = tt.shortcut

			rec := httptest.NewRecorder()
			h.ShortcutSSE(rec, features.SignalsRequest(t, http.MethodPost, "/api/builder/shortcut", s))

			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestTableSSE(t *testing.T) {
	h, _ := setupTestHandlers(t)
	s := defaultSignals()
	s.FilterColumn = "name"
	s.Value = "x"

	rec := httptest.NewRecorder()
	h.TableSSE(rec, features.SignalsRequest(t, http.MethodPost, "/api/builder/table", s))

	body := rec.Body.String()
	assert.Contains(t, body, `<option value="customer_id" selected>customer_id</option>`)
	assert.Contains(t, body, "SELECT id, customer_id, status, amount, code FROM orders LIMIT 100;")
	assert.Contains(t, body, `<option value="" selected>None</option>`)
}

func TestPreviewSSE(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Signals)
		want    string
		notWant string
	}{
		{
			name: "numeric filter without limit",
			mutate: func(s *Signals) {
				s.Columns = []string{"id"}
				s.FilterColumn = "amount"
				s.Operator = ">="
				s.Value = "100"
				s.LimitEnabled = false
			},
			want:    "SELECT id FROM orders WHERE amount::float &gt;= 100;",
			notWant: "LIMIT",
		},
		{
			name: "text filter is quoted and escaped",
			mutate: func(s *Signals) {
				s.FilterColumn = "status"
				s.Value = "o'brien"
			},
			want: "SELECT * FROM orders WHERE status::text = &#39;o&#39;&#39;brien&#39; LIMIT 100;",
		},
		{
			name: "empty value adds no where clause",
			mutate: func(s *Signals) {
				s.FilterColumn = "status"
				s.Value = "  "
			},
			want:    "SELECT * FROM orders LIMIT 100;",
			notWant: "WHERE",
		},
		{
			name:   "invalid limit",
			mutate: func(s *Signals) { s.Limit = 0 },
			want:   "Invalid input: limit must be at least 1",
		},
		{
			name:   "unsupported operator",
			mutate: func(s *Signals) { s.Operator = "LIKE" },
			want:   "Invalid input: operator is not a supported operator",
		},
		{
			name:   "missing table",
			mutate: func(s *Signals) { s.Table = "" },
			want:   "Invalid input: table is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)
			s := defaultSignals()
			tt.mutate(&s)

			rec := httptest.NewRecorder()
			h.PreviewSSE(rec, features.SignalsRequest(t, http.MethodPost, "/api/builder/preview", s))

			body := rec.Body.String()
			assert.Contains(t, body, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, body, tt.notWant)
			}
		})
	}
}

func TestRunSSE(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	s := defaultSignals()
	s.Columns = []string{"id", "status"}
	s.FilterColumn = "status"
	s.Operator = "CONTAINS"
	s.Value = "ship"

	rec := httptest.NewRecorder()
	h.RunSSE(rec, features.SignalsRequest(t, http.MethodPost, "/api/builder/run", s))

	body := rec.Body.String()
	assert.Contains(t, body, "Query returned 2 rows.")
	assert.Contains(t, body, "<td>shipped</td>")
	assert.Contains(t, body, "<td>Shipping</td>")

	entries, err := fixture.History.List(context.Background(), history.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "builder", entries[0].Source)
	assert.Equal(t, history.StatusOK, entries[0].Status)
}

func TestRunSSE_ExecutionError(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	s := defaultSignals()
	s.FilterColumn = "no_such_column"
	s.Value = "1"

	rec := httptest.NewRecorder()
	h.RunSSE(rec, features.SignalsRequest(t, http.MethodPost, "/api/builder/run", s))

	body := rec.Body.String()
	assert.Contains(t, body, "Error executing query: ")
	assert.Contains(t, body, "no_such_column")
	assert.NotContains(t, body, "Query returned")

	entries, err := fixture.History.List(context.Background(), history.Filter{Status: history.StatusError})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// withCookies copies the cookies set by rec onto req.
func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestDownload_LastResult(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	s := defaultSignals()
	s.Table = "customers"
	s.Columns = []string{"id", "name"}
	s.LimitEnabled = false

	run := httptest.NewRecorder()
	h.RunSSE(run, features.SignalsRequest(t, http.MethodPost, "/api/builder/run", s))
	require.Contains(t, run.Body.String(), "Query returned 3 rows.")

	rec := httptest.NewRecorder()
	h.Download(rec, withCookies(httptest.NewRequest(http.MethodGet, "/api/builder/download", nil), run))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="query_results.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "id,name\n1,Alice\n2,Bob O'Brien\n3,Carla\n", rec.Body.String())

	entries, err := fixture.History.List(context.Background(), history.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "download does not execute the statement again")
}

func TestDownload_FailedRunKeepsPreviousResult(t *testing.T) {
	h, _ := setupTestHandlers(t)

	page := httptest.NewRecorder()
	h.BuilderPage(page, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, page.Result().Cookies())

	ok := defaultSignals()
	ok.Columns = []string{"id"}
	ok.LimitEnabled = false
	h.RunSSE(httptest.NewRecorder(), withCookies(features.SignalsRequest(t, http.MethodPost, "/api/builder/run", ok), page))

	bad := defaultSignals()
	bad.FilterColumn = "no_such_column"
	bad.Value = "1"
	h.RunSSE(httptest.NewRecorder(), withCookies(features.SignalsRequest(t, http.MethodPost, "/api/builder/run", bad), page))

	rec := httptest.NewRecorder()
	h.Download(rec, withCookies(httptest.NewRequest(http.MethodGet, "/api/builder/download", nil), page))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "id\n"))
}

func TestDownload_NothingRun(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Download(rec, httptest.NewRequest(http.MethodGet, "/api/builder/download", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	page := httptest.NewRecorder()
	h.BuilderPage(page, httptest.NewRequest(http.MethodGet, "/", nil))
	rec = httptest.NewRecorder()
	h.Download(rec, withCookies(httptest.NewRequest(http.MethodGet, "/api/builder/download", nil), page))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run the query before downloading")
}

func TestUpdates_BroadcastRefreshesShortcuts(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/builder/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.Updates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, fixture.Deps.Catalog.Replace(map[string]query.Shortcut{
		"Reloaded": {Table: "customers"},
	}))
	fixture.Deps.Notifier.Broadcast(notifier.ShortcutsChanged)

	<-done

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, `<option value="Reloaded">Reloaded</option>`)
	assert.NotContains(t, body, "Shipped orders")
}

func TestUpdates_SchemaChangeRefreshesTables(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/builder/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.Updates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Deps.Notifier.Broadcast(notifier.SchemaChanged)

	<-done

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, "event:"))
	assert.Contains(t, body, `id="table-select"`)
	assert.Contains(t, body, `<option value="orders">orders</option>`)
	assert.NotContains(t, body, `id="shortcut-select"`)
}

func TestUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/builder/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.Updates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

func TestSignals_Spec(t *testing.T) {
	s := Signals{
		Table:        "orders",
		Columns:      []string{"id"},
		FilterColumn: "status",
		Operator:     "contains",
		Value:        "ship",
		LimitEnabled: false,
		Limit:        10,
	}

	spec := s.Spec()
	assert.Equal(t, "orders", spec.Table)
	require.Len(t, spec.Filters, 1)
	assert.Equal(t, query.OpContains, spec.Filters[0].Operator)
	assert.Nil(t, spec.Limit)

	s.FilterColumn = ""
	s.LimitEnabled = true
	spec = s.Spec()
	assert.Empty(t, spec.Filters)
	require.NotNil(t, spec.Limit)
	assert.Equal(t, 10, *spec.Limit)
}
