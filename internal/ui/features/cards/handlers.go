package cards

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
	"github.com/leapstack-labs/leapquery/internal/validation"
	"github.com/leapstack-labs/leapquery/pkg/query"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the explorer page.
type Handlers struct {
	deps    *common.Deps
	builder *query.Builder
	decks   *common.Workspaces[Deck]
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps, decks *common.Workspaces[Deck]) *Handlers {
	return &Handlers{
		deps:    deps,
		builder: query.NewBuilder(deps.Explorer.BuilderOptions()),
		decks:   decks,
	}
}

// ExplorerPage renders the session's cards, starting a new session with
// one card holding the default query.
func (h *Handlers) ExplorerPage(w http.ResponseWriter, r *http.Request) {
	sess := h.deps.Session(r)
	id, changed := common.WorkspaceID(sess)
	if changed {
		if err := sess.Save(r, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	deck := h.decks.Get(id)
	if deck.Len() == 0 {
		deck.Prepend(&Card{ID: InitialCardID, SQL: h.deps.Explorer.DefaultQuery})
	}

	page := common.Page(common.PageData{Title: "Explorer", CurrentPath: "/explorer", IsDev: h.deps.IsDev},
		Page(deck.List(), h.deps.Explorer))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// AddCardSSE prepends a new card. With ?meta=1 the card lists the columns
// of every table.
func (h *Handlers) AddCardSSE(w http.ResponseWriter, r *http.Request) {
	sess := h.deps.Session(r)
	id, _ := common.WorkspaceID(sess)
	card := &Card{ID: nextCardID(sess), SQL: h.deps.Explorer.DefaultQuery}
	if r.URL.Query().Get("meta") != "" {
		card.SQL = config.DefaultMetadataQuery
	}

	// Saving writes a cookie, which is impossible once the stream started.
	if err := sess.Save(r, w); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to save session: %w", err))
		return
	}
	h.decks.Get(id).Prepend(card)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(CardView(*card, h.deps.Explorer),
		datastar.WithSelectorID(containerID), datastar.WithModePrepend()); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// RemoveCardSSE deletes a card and its signals.
func (h *Handlers) RemoveCardSSE(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	if id, ok := common.ExistingWorkspaceID(h.deps.Session(r)); ok {
		if deck, ok := h.decks.Lookup(id); ok {
			deck.Remove(cardID)
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.RemoveElementByID(cardID); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{"cards": map[string]any{cardID: nil}})
}

// RunCardSSE applies the card's filters to its SQL, executes it and
// renders the result below the card.
func (h *Handlers) RunCardSSE(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")

	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sess := h.deps.Session(r)
	id, changed := common.WorkspaceID(sess)
	if changed {
		_ = sess.Save(r, w)
	}

	sse := datastar.NewSSE(w, r)
	panelID := resultsID(cardID)

	cs, ok := signals.Cards[cardID]
	if !ok {
		_ = sse.ConsoleError(fmt.Errorf("unknown card %q", cardID))
		return
	}

	stmt, err := h.compose(cs)
	if err != nil {
		_ = sse.PatchElementTempl(common.ResultPanel(panelID, common.ResultView{Err: err}))
		return
	}

	res, err := h.deps.Runner.Run(r.Context(), metrics.SourceExplorer, stmt)
	h.decks.Get(id).Record(cardID, cs.SQL, res)
	h.deps.Notifier.Broadcast(notifier.HistoryChanged)

	view := common.ResultView{SQL: stmt, Result: res, Err: err}
	if err := sse.PatchElementTempl(common.ResultPanel(panelID, view)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Download returns the card's last successful result as CSV.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	id, ok := common.ExistingWorkspaceID(h.deps.Session(r))
	if !ok {
		http.Error(w, "no queries have been run in this session", http.StatusNotFound)
		return
	}
	deck, ok := h.decks.Lookup(id)
	if !ok {
		http.Error(w, "the session has expired, run the query again", http.StatusNotFound)
		return
	}
	card, ok := deck.Get(cardID)
	if !ok || card.Last == nil {
		http.Error(w, "run the query before downloading its results", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cardID+".csv"))
	if err := export.CSV(w, card.Last); err != nil {
		h.deps.Log().Error("failed to write csv", "card", cardID, "error", err)
	}
}

// compose validates the card's inputs and builds the filtered statement.
func (h *Handlers) compose(cs CardSignals) (string, error) {
	if verr := validation.ValidateStruct(&cs); verr != nil {
		return "", verr
	}

	filters := cs.Filters(h.deps.Explorer)
	var active []query.FilterSpec
	for _, f := range filters {
		if f.Active() {
			active = append(active, f)
		}
	}
	if h.deps.MaxFilters > 0 {
		if verr := validation.ValidateVar("filters", active, fmt.Sprintf("max=%d", h.deps.MaxFilters)); verr != nil {
			return "", verr
		}
	}

	return h.builder.ComposeFiltered(cs.Statement(), filters, cs.RangeFilters(h.deps.Explorer)), nil
}
