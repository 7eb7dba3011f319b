package query

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// decimalLiteral accepts what a user would type as a number; hex and
	// special values like "inf" or "nan" fall through to text.
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

	// plainDecimal is digits with at most one decimal point.
	plainDecimal = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// Normalize converts a filter into an expression. It returns false when the
// filter is inactive or its operator is unknown; malformed values never
// fail and are treated as text.
func Normalize(f FilterSpec) (Expr, bool) {
	if !f.Active() {
		return nil, false
	}
	op, ok := ParseOperator(string(f.Operator))
	if !ok {
		return nil, false
	}

	column := strings.TrimSpace(f.Column)
	if op.IsPattern() {
		return Pattern{Column: column, Match: op.Match(), Value: f.RawValue}, true
	}

	if n, numeric := InferNumber(f.RawValue); numeric {
		return Comparison{
			Column:   column,
			Cast:     CastFloat,
			Operator: op,
			Literal:  Literal{Kind: LiteralNumber, Value: FormatNumber(n)},
		}, true
	}

	return Comparison{
		Column:   column,
		Cast:     CastText,
		Operator: op,
		Literal:  textLiteral(f.RawValue),
	}, true
}

// InferNumber reports whether raw should be compared as a number.
// A value is numeric when it parses as a finite decimal and is either a
// whole number or plain digits with a single decimal point, so "-7" and
// "1e3" are numeric but "-3.5" is text.
func InferNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f == math.Trunc(f) || plainDecimal.MatchString(s) {
		return f, true
	}
	return 0, false
}

// ErrNonFiniteBound is returned by ParseBound for NaN and infinities.
var ErrNonFiniteBound = errors.New("range bound must be a finite number")

// ParseBound parses a range filter bound. Only finite decimals are
// accepted.
func ParseBound(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNonFiniteBound
	}
	return f, nil
}

// FormatNumber renders f as canonical SQL numeric text. Whole numbers carry
// no fractional part.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func textLiteral(raw string) Literal {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return Literal{Kind: LiteralVerbatim, Value: s}
	}
	return Literal{Kind: LiteralString, Value: raw}
}
