// Package cards serves the explorer page: a stack of free-form query cards
// sharing the configured contains and range filters.
package cards

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

// InitialCardID is the id of the card every new session starts with.
const InitialCardID = "initial_query"

// Signals is the client state of the explorer page.
type Signals struct {
	Cards map[string]CardSignals `json:"cards"`
}

// CardSignals is the client state of one card. Filter inputs are keyed by
// their position in the explorer configuration ("f0", "r0", ...).
type CardSignals struct {
	SQL      string                `json:"sql" validate:"required"`
	Contains map[string]string     `json:"contains"`
	Ranges   map[string]RangeInput `json:"ranges" validate:"dive"`
}

// RangeInput holds the raw bounds of a range filter.
type RangeInput struct {
	Start string `json:"start" validate:"omitempty,numeric"`
	End   string `json:"end" validate:"omitempty,numeric"`
}

func filterKey(i int) string { return "f" + strconv.Itoa(i) }
func rangeKey(i int) string  { return "r" + strconv.Itoa(i) }

// newCardSignals returns the signals of a fresh card.
func newCardSignals(sql string, cfg config.ExplorerConfig) CardSignals {
	s := CardSignals{
		SQL:      sql,
		Contains: make(map[string]string, len(cfg.ContainsColumns)),
		Ranges:   make(map[string]RangeInput, len(cfg.Ranges)),
	}
	for i := range cfg.ContainsColumns {
		s.Contains[filterKey(i)] = ""
	}
	for i := range cfg.Ranges {
		s.Ranges[rangeKey(i)] = RangeInput{}
	}
	return s
}

// Filters returns one contains filter per configured column.
func (s CardSignals) Filters(cfg config.ExplorerConfig) []query.FilterSpec {
	filters := make([]query.FilterSpec, len(cfg.ContainsColumns))
	for i, col := range cfg.ContainsColumns {
		filters[i] = query.FilterSpec{
			Column:   col,
			Operator: query.OpContains,
			RawValue: s.Contains[filterKey(i)],
		}
	}
	return filters
}

// RangeFilters returns one range filter per configured range. Blank
// bounds leave the filter inactive.
func (s CardSignals) RangeFilters(cfg config.ExplorerConfig) []query.RangeFilterSpec {
	specs := cfg.RangeSpecs()
	for i := range specs {
		in := s.Ranges[rangeKey(i)]
		specs[i].Start = parseBound(in.Start)
		specs[i].End = parseBound(in.End)
	}
	return specs
}

// Statement joins the card's SQL into one line.
func (s CardSignals) Statement() string {
	r := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(r.Replace(s.SQL))
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := query.ParseBound(raw)
	if err != nil {
		return nil
	}
	return &f
}
