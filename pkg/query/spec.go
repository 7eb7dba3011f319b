package query

import "strings"

// DefaultLimit is the row limit offered when none is configured.
const DefaultLimit = 100

// FilterSpec is a single user-configured condition.
type FilterSpec struct {
	Column   string   `json:"column" yaml:"column"`
	Operator Operator `json:"operator" yaml:"operator"`
	RawValue string   `json:"value" yaml:"value"`
}

// Active reports whether the filter contributes a clause.
func (f FilterSpec) Active() bool {
	return strings.TrimSpace(f.Column) != "" && strings.TrimSpace(f.RawValue) != ""
}

// RangeFilterSpec is a bounded numeric filter. Min and Max are the bounds
// offered by the UI; Start and End are the bounds currently selected.
type RangeFilterSpec struct {
	Column string   `json:"column" yaml:"column"`
	Min    float64  `json:"min" yaml:"min"`
	Max    float64  `json:"max" yaml:"max"`
	Start  *float64 `json:"start,omitempty" yaml:"start,omitempty"`
	End    *float64 `json:"end,omitempty" yaml:"end,omitempty"`
}

// Active reports whether both bounds are set. Start > End is still active.
func (r RangeFilterSpec) Active() bool {
	return strings.TrimSpace(r.Column) != "" && r.Start != nil && r.End != nil
}

// QuerySpec describes a query before it is rendered to SQL.
//
// Filters are OR-combined, RangeFilters AND-combined. An empty Columns list
// selects every column. A nil or non-positive Limit adds no LIMIT clause.
type QuerySpec struct {
	Table        string            `json:"table" yaml:"table"`
	Columns      []string          `json:"columns,omitempty" yaml:"columns,omitempty"`
	Filters      []FilterSpec      `json:"filters,omitempty" yaml:"filters,omitempty"`
	RangeFilters []RangeFilterSpec `json:"range_filters,omitempty" yaml:"range_filters,omitempty"`
	Limit        *int              `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 {
	return &f
}
