// Package builder serves the single-table query builder page.
package builder

import (
	"strings"
	"sync"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

// Signals is the client state of the builder page.
type Signals struct {
	Shortcut     string   `json:"shortcut"`
	Table        string   `json:"table"`
	Columns      []string `json:"columns"`
	FilterColumn string   `json:"filterColumn"`
	Operator     string   `json:"operator" validate:"required,operator"`
	Value        string   `json:"value"`
	LimitEnabled bool     `json:"limitEnabled"`
	Limit        int      `json:"limit" validate:"min=1"`
}

// Spec converts the signals to a query specification.
func (s Signals) Spec() query.QuerySpec {
	spec := query.QuerySpec{Table: s.Table, Columns: s.Columns}
	if strings.TrimSpace(s.FilterColumn) != "" {
		op, _ := query.ParseOperator(s.Operator)
		spec.Filters = []query.FilterSpec{{
			Column:   s.FilterColumn,
			Operator: op,
			RawValue: s.Value,
		}}
	}
	if s.LimitEnabled {
		spec.Limit = query.IntPtr(s.Limit)
	}
	return spec
}

// fromSpec builds the signals a shortcut pre-populates.
func fromSpec(shortcut string, spec query.QuerySpec) Signals {
	s := Signals{
		Shortcut:     shortcut,
		Table:        spec.Table,
		Columns:      spec.Columns,
		Operator:     string(query.OpEqual),
		LimitEnabled: true,
		Limit:        query.DefaultLimit,
	}
	if s.Columns == nil {
		s.Columns = []string{}
	}
	if len(spec.Filters) > 0 {
		f := spec.Filters[0]
		s.FilterColumn = f.Column
		if op, ok := query.ParseOperator(string(f.Operator)); ok {
			s.Operator = string(op)
		}
		s.Value = f.RawValue
	}
	if spec.Limit != nil {
		s.Limit = *spec.Limit
	}
	return s
}

// FormState is everything the builder form renders.
type FormState struct {
	Signals   Signals
	Shortcuts []string
	Tables    []string
	Columns   []string
	SQL       string
	Error     string
}

// lastRun is a session's most recent successful result, served by
// downloads.
type lastRun struct {
	mu  sync.Mutex
	res *core.Result
}

func (l *lastRun) set(res *core.Result) {
	l.mu.Lock()
	l.res = res
	l.mu.Unlock()
}

func (l *lastRun) get() *core.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.res
}
