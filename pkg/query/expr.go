package query

import "strings"

// Expr is a node of a WHERE clause expression tree.
type Expr interface {
	exprNode()
}

// Cast is the type a column is cast to before comparison.
type Cast string

// Column casts.
const (
	CastText  Cast = "text"
	CastFloat Cast = "float"
)

// LiteralKind controls how a Literal is written.
type LiteralKind int

const (
	// LiteralNumber is written as-is, without quotes.
	LiteralNumber LiteralKind = iota
	// LiteralString is single-quoted with embedded quotes doubled.
	LiteralString
	// LiteralVerbatim was quoted by the user and is written unchanged.
	LiteralVerbatim
)

// Literal is the right-hand side of a Comparison.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// Match selects where ILIKE wildcards are placed around a Pattern value.
type Match int

// Wildcard placements.
const (
	MatchContains Match = iota // %value%
	MatchPrefix                // value%
	MatchSuffix                // %value
)

// Comparison is "<column>::<cast> <op> <literal>".
type Comparison struct {
	Column   string
	Cast     Cast
	Operator Operator
	Literal  Literal
}

// Pattern is "<column>::text ILIKE '<wildcarded value>'".
type Pattern struct {
	Column string
	Match  Match
	Value  string
}

// Range is an inclusive numeric BETWEEN on a column.
//
// When StripNonDigits is set the column is reduced to its digits and cast
// to int. Otherwise values that do not look numeric become NULL, which
// excludes the row instead of raising a cast error.
type Range struct {
	Column         string
	StripNonDigits bool
	Start          float64
	End            float64
}

// Or joins its children with OR and is always parenthesized.
type Or struct {
	Children []Expr
}

// And joins its children with AND.
type And struct {
	Children []Expr
}

func (Comparison) exprNode() {}
func (Pattern) exprNode()    {}
func (Range) exprNode()      {}
func (Or) exprNode()         {}
func (And) exprNode()        {}

// NumericPattern is the POSIX regex a text value must match to be cast to
// FLOAT inside a range filter.
const NumericPattern = `^-?[0-9]+(\.[0-9]+)?$`

// Render serializes e to SQL. A nil expression, or a conjunction whose
// children all render empty, yields "".
func Render(e Expr) string {
	switch ex := e.(type) {
	case Comparison:
		return renderComparison(ex)
	case Pattern:
		return renderPattern(ex)
	case Range:
		return renderRange(ex)
	case Or:
		parts := renderChildren(ex.Children)
		if len(parts) == 0 {
			return ""
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case And:
		return strings.Join(renderChildren(ex.Children), " AND ")
	default:
		return ""
	}
}

func renderChildren(children []Expr) []string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		if s := Render(child); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

func renderComparison(c Comparison) string {
	var lit string
	switch c.Literal.Kind {
	case LiteralNumber, LiteralVerbatim:
		lit = c.Literal.Value
	default:
		lit = QuoteString(c.Literal.Value)
	}
	return c.Column + "::" + string(c.Cast) + " " + string(c.Operator) + " " + lit
}

func renderPattern(p Pattern) string {
	var pattern string
	switch p.Match {
	case MatchPrefix:
		pattern = p.Value + "%"
	case MatchSuffix:
		pattern = "%" + p.Value
	default:
		pattern = "%" + p.Value + "%"
	}
	return p.Column + "::text ILIKE " + QuoteString(pattern)
}

func renderRange(r Range) string {
	bounds := " BETWEEN " + FormatNumber(r.Start) + " AND " + FormatNumber(r.End)
	if r.StripNonDigits {
		return "regexp_replace(" + r.Column + `, '\D', '', 'g')::int` + bounds
	}
	return "CASE WHEN " + r.Column + "::text ~ " + QuoteString(NumericPattern) +
		" THEN CAST(" + r.Column + " AS FLOAT) ELSE NULL END" + bounds
}

// QuoteString wraps s in single quotes, doubling any embedded quote.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
