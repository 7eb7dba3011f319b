package runs

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
	"github.com/leapstack-labs/leapquery/internal/validation"
	"github.com/starfederation/datastar-go/datastar"
)

// errDisabled is reported by the API when history recording is off.
var errDisabled = errors.New("query history is disabled")

// Handlers provides HTTP handlers for the query history page.
type Handlers struct {
	deps *common.Deps
	now  func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps, now: time.Now}
}

// RunsPage renders the most recent runs.
func (h *Handlers) RunsPage(w http.ResponseWriter, r *http.Request) {
	data := common.PageData{Title: "Query History", CurrentPath: "/history", IsDev: h.deps.IsDev}

	if h.deps.History == nil {
		if err := common.Page(data, Disabled()).Render(r.Context(), w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	signals := defaultSignals()
	entries, err := h.deps.History.List(r.Context(), signals.Filter())
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list history: %v", err), http.StatusInternalServerError)
		return
	}

	if err := common.Page(data, Page(toItems(entries, h.now()), signals)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RunsListSSE re-renders the run table for the posted filters.
func (h *Handlers) RunsListSSE(w http.ResponseWriter, r *http.Request) {
	signals := defaultSignals()
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)
	if h.deps.History == nil {
		_ = sse.ConsoleError(errDisabled)
		return
	}

	if verr := validation.ValidateStruct(&signals); verr != nil {
		_ = sse.PatchElementTempl(List(nil, common.ErrorMessage(verr)))
		return
	}

	entries, err := h.deps.History.List(r.Context(), signals.Filter())
	if err != nil {
		_ = sse.ConsoleError(fmt.Errorf("failed to list history: %w", err))
		return
	}

	if err := sse.PatchElementTempl(List(toItems(entries, h.now()), "")); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.PatchElementTempl(Notice(false))
}

// RunDetailSSE shows one run in the detail panel.
func (h *Handlers) RunDetailSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if h.deps.History == nil {
		_ = sse.ConsoleError(errDisabled)
		return
	}

	entry, err := h.deps.History.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		_ = sse.PatchElementTempl(DetailError(err.Error()))
		return
	}
	if err != nil {
		_ = sse.ConsoleError(fmt.Errorf("failed to get history entry: %w", err))
		return
	}

	if err := sse.PatchElementTempl(Detail(toDetail(entry, h.now()))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates is the long-lived SSE endpoint of the history page. It shows a
// refresh prompt whenever a query is executed from the UI.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sub := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C():
			if !sub.Events().Has(notifier.HistoryChanged) {
				continue
			}
			if err := sse.PatchElementTempl(Notice(true)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}
