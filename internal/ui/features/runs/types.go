// Package runs serves the query history page: the statements executed from
// the builder, the explorer and the CLI, newest first.
package runs

import (
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/metrics"
)

// DefaultLimit is the number of runs listed when the page opens.
const DefaultLimit = 50

// Signals is the client state of the history page.
type Signals struct {
	Source string `json:"source" validate:"omitempty,oneof=builder explorer cli"`
	Status string `json:"status" validate:"omitempty,oneof=ok error"`
	Limit  int    `json:"limit" validate:"min=1,max=500"`
}

func defaultSignals() Signals {
	return Signals{Limit: DefaultLimit}
}

// Filter converts the signals into a history filter.
func (s Signals) Filter() history.Filter {
	return history.Filter{
		Source: s.Source,
		Status: history.Status(s.Status),
		Limit:  s.Limit,
	}
}

// Sources lists the values of the source filter.
var Sources = []string{metrics.SourceBuilder, metrics.SourceExplorer, metrics.SourceCLI}

// Statuses lists the values of the status filter.
var Statuses = []string{string(history.StatusOK), string(history.StatusError)}

// RunItem is a compact run representation for the list view.
type RunItem struct {
	ID       string
	Source   string
	Status   string
	SQL      string
	Rows     int
	Ago      string
	Duration string
}

// RunDetail is the full view of one run.
type RunDetail struct {
	RunItem
	ExecutedAt string
	Error      string
}
