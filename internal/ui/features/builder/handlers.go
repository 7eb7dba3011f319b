package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/leapstack-labs/leapquery/internal/metrics"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
	"github.com/leapstack-labs/leapquery/internal/validation"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/query"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the builder page.
type Handlers struct {
	deps *common.Deps
	last *common.Workspaces[lastRun]
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{
		deps: deps,
		last: common.NewWorkspaces[lastRun](deps.MaxSessions, deps.SessionTTL),
	}
}

// BuilderPage renders the builder with the empty shortcut applied.
func (h *Handlers) BuilderPage(w http.ResponseWriter, r *http.Request) {
	sess := h.deps.Session(r)
	if _, changed := common.WorkspaceID(sess); changed {
		if err := sess.Save(r, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	state, err := h.shortcutState(r.Context(), query.NoShortcut)
	if err != nil {
		h.deps.Log().Error("failed to load schema", "error", err)
		state = FormState{Shortcuts: h.deps.Catalog.Names(), Error: "Failed to load tables: " + err.Error()}
	}

	page := common.Page(common.PageData{Title: "Query Builder", CurrentPath: "/", IsDev: h.deps.IsDev}, Page(state))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ShortcutSSE applies the selected shortcut to the whole form.
func (h *Handlers) ShortcutSSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	state, err := h.shortcutState(r.Context(), signals.Shortcut)
	if err != nil {
		_ = sse.PatchElementTempl(Preview("", err.Error()))
		return
	}
	h.sendForm(sse, state)
}

// TableSSE selects every column of the newly selected table.
func (h *Handlers) TableSSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	columns, err := h.deps.Schema.Columns(r.Context(), signals.Table)
	if err != nil {
		_ = sse.PatchElementTempl(Preview("", err.Error()))
		return
	}
	tables, err := h.deps.Schema.Tables(r.Context())
	if err != nil {
		_ = sse.PatchElementTempl(Preview("", err.Error()))
		return
	}

	signals.Columns = columns
	signals.FilterColumn = ""
	h.sendForm(sse, FormState{
		Signals:   signals,
		Shortcuts: h.deps.Catalog.Names(),
		Tables:    tables,
		Columns:   columns,
	})
}

// PreviewSSE re-renders the generated statement.
func (h *Handlers) PreviewSSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	stmt, err := compose(signals)
	if err != nil {
		_ = sse.PatchElementTempl(Preview("", common.ErrorMessage(err)))
		return
	}
	if err := sse.PatchElementTempl(Preview(stmt, "")); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// RunSSE executes the generated statement and renders the result.
func (h *Handlers) RunSSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	// Saving writes a cookie, which is impossible once the stream started.
	sess := h.deps.Session(r)
	id, changed := common.WorkspaceID(sess)
	if changed {
		_ = sess.Save(r, w)
	}

	sse := datastar.NewSSE(w, r)

	stmt, err := compose(signals)
	if err != nil {
		_ = sse.PatchElementTempl(common.ResultPanel(resultsID, common.ResultView{Err: err}))
		return
	}

	res, err := h.deps.Runner.Run(r.Context(), metrics.SourceBuilder, stmt)
	if err == nil {
		h.last.Get(id).set(res)
	}
	h.deps.Notifier.Broadcast(notifier.HistoryChanged)
	view := common.ResultView{SQL: stmt, Result: res, Err: err}
	if err := sse.PatchElementTempl(common.ResultPanel(resultsID, view)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Download returns the session's last successful result as CSV. The
// statement is not executed again.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	var res *core.Result
	if id, ok := common.ExistingWorkspaceID(h.deps.Session(r)); ok {
		if last, ok := h.last.Lookup(id); ok {
			res = last.get()
		}
	}
	if res == nil {
		http.Error(w, "run the query before downloading its results", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="query_results.csv"`)
	if err := export.CSV(w, res); err != nil {
		h.deps.Log().Error("failed to write csv", "error", err)
	}
}

// Updates is the long-lived SSE endpoint of the builder page. It re-renders
// the shortcut list when the configuration is reloaded and the table list
// when the schema cache is dropped.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	_ = datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)

	sub := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C():
			ev := sub.Events()
			if ev.Has(notifier.ShortcutsChanged) {
				if err := sse.PatchElementTempl(ShortcutSelect(h.deps.Catalog.Names(), signals.Shortcut)); err != nil {
					_ = sse.ConsoleError(err)
				}
			}
			if ev.Has(notifier.SchemaChanged) {
				tables, err := h.deps.Schema.Tables(ctx)
				if err != nil {
					_ = sse.ConsoleError(err)
					continue
				}
				if err := sse.PatchElementTempl(TableSelect(tables, signals.Table)); err != nil {
					_ = sse.ConsoleError(err)
				}
			}
		}
	}
}

// shortcutState builds the form a shortcut pre-populates.
func (h *Handlers) shortcutState(ctx context.Context, name string) (FormState, error) {
	sc, ok := h.deps.Catalog.Get(name)
	if !ok {
		return FormState{}, fmt.Errorf("unknown shortcut %q", name)
	}
	if name == "" {
		name = query.NoShortcut
	}

	tables, err := h.deps.Schema.Tables(ctx)
	if err != nil {
		return FormState{}, err
	}
	if len(tables) == 0 {
		return FormState{}, errors.New("the target database has no tables")
	}

	table := sc.ResolveTable(tables)
	columns, err := h.deps.Schema.Columns(ctx, table)
	if err != nil {
		return FormState{}, err
	}

	signals := fromSpec(name, sc.Apply(table, columns))
	stmt, err := compose(signals)
	if err != nil {
		return FormState{}, err
	}

	return FormState{
		Signals:   signals,
		Shortcuts: h.deps.Catalog.Names(),
		Tables:    tables,
		Columns:   columns,
		SQL:       stmt,
	}, nil
}

// sendForm patches every form control, then the signals, so bound
// elements already hold the options the new values refer to.
func (h *Handlers) sendForm(sse *datastar.ServerSentEventGenerator, state FormState) {
	if state.SQL == "" {
		stmt, err := compose(state.Signals)
		if err != nil {
			_ = sse.PatchElementTempl(Preview("", common.ErrorMessage(err)))
			return
		}
		state.SQL = stmt
	}

	for _, c := range []templ.Component{
		ShortcutSelect(state.Shortcuts, state.Signals.Shortcut),
		TableSelect(state.Tables, state.Signals.Table),
		ColumnControls(state.Columns, state.Signals),
		Preview(state.SQL, ""),
	} {
		if err := sse.PatchElementTempl(c); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}
	if err := sse.MarshalAndPatchSignals(state.Signals); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// compose validates the signals and renders the statement.
func compose(s Signals) (string, error) {
	if verr := validation.ValidateVar("table", strings.TrimSpace(s.Table), "required"); verr != nil {
		return "", verr
	}
	if verr := validation.ValidateStruct(&s); verr != nil {
		return "", verr
	}
	return query.Compose(s.Spec()), nil
}
