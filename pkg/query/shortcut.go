package query

import "slices"

// NoShortcut is the name of the always-present empty shortcut.
const NoShortcut = "None"

// Shortcut is a named, pre-filled query template.
type Shortcut struct {
	Table   string         `koanf:"table" yaml:"table" validate:"required"`
	Columns []string       `koanf:"columns" yaml:"columns,omitempty"`
	Where   *ShortcutWhere `koanf:"where" yaml:"where,omitempty"`
	Limit   int            `koanf:"limit" yaml:"limit,omitempty" validate:"gte=0"`
}

// ShortcutWhere is the single condition a shortcut pre-populates.
type ShortcutWhere struct {
	Column   string `koanf:"column" yaml:"column" validate:"required"`
	Operator string `koanf:"operator" yaml:"operator" validate:"required,operator"`
	Value    string `koanf:"value" yaml:"value"`
}

// ResolveTable returns the shortcut's table when it is one of tables,
// otherwise the first table (or "" when there are none).
func (s Shortcut) ResolveTable(tables []string) string {
	if s.Table != "" && slices.Contains(tables, s.Table) {
		return s.Table
	}
	if len(tables) > 0 {
		return tables[0]
	}
	return ""
}

// Apply builds the QuerySpec the shortcut pre-populates for table, whose
// columns are available. Shortcut columns missing from the table are
// dropped; without shortcut columns every available column is selected.
// The WHERE condition is applied only if its column exists.
func (s Shortcut) Apply(table string, available []string) QuerySpec {
	spec := QuerySpec{Table: table}

	if s.Columns == nil {
		spec.Columns = slices.Clone(available)
	} else {
		for _, c := range s.Columns {
			if slices.Contains(available, c) {
				spec.Columns = append(spec.Columns, c)
			}
		}
	}

	if s.Where != nil && slices.Contains(available, s.Where.Column) {
		spec.Filters = []FilterSpec{{
			Column:   s.Where.Column,
			Operator: Operator(s.Where.Operator),
			RawValue: s.Where.Value,
		}}
	}

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	spec.Limit = IntPtr(limit)
	return spec
}

// Spec builds the QuerySpec without checking the schema.
func (s Shortcut) Spec() QuerySpec {
	spec := QuerySpec{Table: s.Table, Columns: slices.Clone(s.Columns)}
	if s.Where != nil {
		spec.Filters = []FilterSpec{{
			Column:   s.Where.Column,
			Operator: Operator(s.Where.Operator),
			RawValue: s.Where.Value,
		}}
	}
	if s.Limit > 0 {
		spec.Limit = IntPtr(s.Limit)
	}
	return spec
}
