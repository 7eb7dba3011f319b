package query

import (
	"strconv"
	"strings"
)

// Options configures a Builder.
type Options struct {
	// NonDigitColumns hold identifiers with embedded numbers (e.g. "AB-0042").
	// Range filters on these columns compare only the digits.
	NonDigitColumns []string
}

// Builder renders query specifications to SQL. It holds no per-query state
// and is safe for concurrent use.
type Builder struct {
	nonDigit map[string]struct{}
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	b := &Builder{nonDigit: make(map[string]struct{}, len(opts.NonDigitColumns))}
	for _, col := range opts.NonDigitColumns {
		if col = strings.TrimSpace(col); col != "" {
			b.nonDigit[col] = struct{}{}
		}
	}
	return b
}

var defaultBuilder = NewBuilder(Options{})

// Compose renders spec with a Builder that has no non-digit columns.
func Compose(spec QuerySpec) string {
	return defaultBuilder.Compose(spec)
}

// Compose renders a complete statement:
//
//	SELECT <columns|*> FROM <table> [WHERE ...] [LIMIT n];
//
// A single filter is emitted bare; several filters are OR-ed in parentheses.
func (b *Builder) Compose(spec QuerySpec) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectList(spec.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(strings.TrimSpace(spec.Table))

	if where := Render(b.where(spec)); where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if spec.Limit != nil && *spec.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(*spec.Limit))
	}
	sb.WriteString(";")
	return sb.String()
}

func (b *Builder) where(spec QuerySpec) Expr {
	var matches []Expr
	for _, f := range spec.Filters {
		if e, ok := Normalize(f); ok {
			matches = append(matches, e)
		}
	}

	var group Expr
	switch len(matches) {
	case 0:
	case 1:
		group = matches[0]
	default:
		group = Or{Children: matches}
	}
	return b.join(group, b.ranges(spec.RangeFilters))
}

// Assemble builds the WHERE expression of the multi-filter builder: every
// active filter is a case-insensitive contains match, OR-ed and
// parenthesized, then AND-ed with every active range. It returns nil when
// nothing is active.
func (b *Builder) Assemble(filters []FilterSpec, ranges []RangeFilterSpec) Expr {
	var matches []Expr
	for _, f := range filters {
		if !f.Active() {
			continue
		}
		matches = append(matches, Pattern{
			Column: strings.TrimSpace(f.Column),
			Match:  MatchContains,
			Value:  f.RawValue,
		})
	}

	var group Expr
	if len(matches) > 0 {
		group = Or{Children: matches}
	}
	return b.join(group, b.ranges(ranges))
}

// ComposeFiltered appends the assembled WHERE clause to base. The trailing
// semicolon of base is dropped and no LIMIT is added.
func (b *Builder) ComposeFiltered(base string, filters []FilterSpec, ranges []RangeFilterSpec) string {
	stmt := StripTerminator(base)
	if where := Render(b.Assemble(filters, ranges)); where != "" {
		stmt += " WHERE " + where
	}
	return stmt
}

func (b *Builder) ranges(specs []RangeFilterSpec) []Expr {
	var out []Expr
	for _, r := range specs {
		if !r.Active() {
			continue
		}
		column := strings.TrimSpace(r.Column)
		_, strip := b.nonDigit[column]
		out = append(out, Range{
			Column:         column,
			StripNonDigits: strip,
			Start:          *r.Start,
			End:            *r.End,
		})
	}
	return out
}

func (b *Builder) join(group Expr, ranges []Expr) Expr {
	if group == nil && len(ranges) == 0 {
		return nil
	}
	children := make([]Expr, 0, len(ranges)+1)
	if group != nil {
		children = append(children, group)
	}
	children = append(children, ranges...)
	if len(children) == 1 {
		return children[0]
	}
	return And{Children: children}
}

func selectList(columns []string) string {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return "*"
	}
	return strings.Join(cols, ", ")
}

// StripTerminator removes trailing whitespace and semicolons from a statement.
func StripTerminator(stmt string) string {
	return strings.TrimRight(stmt, "; \t\r\n")
}
