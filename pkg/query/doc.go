// Package query turns structured query specifications into SQL text.
//
// Filters are normalized into a small expression tree (Comparison, Pattern,
// Range, Or, And) which is rendered by a single serializer, so quoting,
// casting and operator precedence are decided in one place:
//
//	spec := query.QuerySpec{
//		Table:   "orders",
//		Filters: []query.FilterSpec{{Column: "status", Operator: query.OpContains, RawValue: "ship"}},
//		Limit:   query.IntPtr(50),
//	}
//	query.Compose(spec) // SELECT * FROM orders WHERE status::text ILIKE '%ship%' LIMIT 50;
//
// The generated SQL targets PostgreSQL (ILIKE, :: casts, regexp_replace).
// Escaping is best effort; it is not a security boundary.
package query
