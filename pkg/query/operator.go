package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operator is a user-facing filter operator.
type Operator string

// Supported operators. The three pattern operators map to ILIKE.
const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpBeginsWith     Operator = "BEGINS_WITH"
	OpEndsWith       Operator = "ENDS_WITH"
	OpContains       Operator = "CONTAINS"
)

// Operators lists every operator in the order the UI offers them.
var Operators = []Operator{
	OpEqual,
	OpNotEqual,
	OpLessThan,
	OpLessOrEqual,
	OpGreaterThan,
	OpGreaterOrEqual,
	OpBeginsWith,
	OpEndsWith,
	OpContains,
}

// ParseOperator resolves s to an Operator. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseOperator(s string) (Operator, bool) {
	candidate := Operator(strings.ToUpper(strings.TrimSpace(s)))
	for _, op := range Operators {
		if op == candidate {
			return op, true
		}
	}
	return "", false
}

// IsPattern reports whether the operator renders as an ILIKE pattern match.
func (o Operator) IsPattern() bool {
	switch o {
	case OpBeginsWith, OpEndsWith, OpContains:
		return true
	}
	return false
}

// Match returns the wildcard placement for a pattern operator.
func (o Operator) Match() Match {
	switch o {
	case OpBeginsWith:
		return MatchPrefix
	case OpEndsWith:
		return MatchSuffix
	default:
		return MatchContains
	}
}

// Label returns a human-readable label, e.g. "Begins With" for BEGINS_WITH.
// Symbolic operators are returned unchanged.
func (o Operator) Label() string {
	if !o.IsPattern() {
		return string(o)
	}
	titleCaser := cases.Title(language.English)
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(string(o)), "_", " "))
}
