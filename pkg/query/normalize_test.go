package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		filter   FilterSpec
		expected string
	}{
		{
			name:     "integer uses float cast",
			filter:   FilterSpec{Column: "amount", Operator: OpGreaterOrEqual, RawValue: "100"},
			expected: "amount::float >= 100",
		},
		{
			name:     "decimal stays decimal",
			filter:   FilterSpec{Column: "price", Operator: OpLessThan, RawValue: "3.14"},
			expected: "price::float < 3.14",
		},
		{
			name:     "negative integer is numeric",
			filter:   FilterSpec{Column: "delta", Operator: OpEqual, RawValue: "-7"},
			expected: "delta::float = -7",
		},
		{
			name:     "whole decimal drops fraction",
			filter:   FilterSpec{Column: "amount", Operator: OpEqual, RawValue: "42.0"},
			expected: "amount::float = 42",
		},
		{
			name:     "exponent that is whole is numeric",
			filter:   FilterSpec{Column: "amount", Operator: OpEqual, RawValue: "1e3"},
			expected: "amount::float = 1000",
		},
		{
			name:     "negative fraction is text",
			filter:   FilterSpec{Column: "delta", Operator: OpEqual, RawValue: "-3.5"},
			expected: "delta::text = '-3.5'",
		},
		{
			name:     "text is quoted",
			filter:   FilterSpec{Column: "status", Operator: OpNotEqual, RawValue: "shipped"},
			expected: "status::text != 'shipped'",
		},
		{
			name:     "pre-quoted text passes through",
			filter:   FilterSpec{Column: "status", Operator: OpEqual, RawValue: "'shipped'"},
			expected: "status::text = 'shipped'",
		},
		{
			name:     "embedded quote is doubled",
			filter:   FilterSpec{Column: "name", Operator: OpEqual, RawValue: "o'brien"},
			expected: "name::text = 'o''brien'",
		},
		{
			name:     "lone quote is not treated as pre-quoted",
			filter:   FilterSpec{Column: "name", Operator: OpEqual, RawValue: "'"},
			expected: "name::text = ''''",
		},
		{
			name:     "hex is text",
			filter:   FilterSpec{Column: "code", Operator: OpEqual, RawValue: "0x10"},
			expected: "code::text = '0x10'",
		},
		{
			name:     "inf is text",
			filter:   FilterSpec{Column: "code", Operator: OpEqual, RawValue: "inf"},
			expected: "code::text = 'inf'",
		},
		{
			name:     "contains",
			filter:   FilterSpec{Column: "name", Operator: OpContains, RawValue: "abc"},
			expected: "name::text ILIKE '%abc%'",
		},
		{
			name:     "begins with",
			filter:   FilterSpec{Column: "name", Operator: OpBeginsWith, RawValue: "abc"},
			expected: "name::text ILIKE 'abc%'",
		},
		{
			name:     "ends with",
			filter:   FilterSpec{Column: "name", Operator: OpEndsWith, RawValue: "abc"},
			expected: "name::text ILIKE '%abc'",
		},
		{
			name:     "pattern on numeric value still casts to text",
			filter:   FilterSpec{Column: "amount", Operator: OpContains, RawValue: "42"},
			expected: "amount::text ILIKE '%42%'",
		},
		{
			name:     "lowercase operator accepted",
			filter:   FilterSpec{Column: "name", Operator: "contains", RawValue: "abc"},
			expected: "name::text ILIKE '%abc%'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := Normalize(tt.filter)
			require.True(t, ok)
			assert.Equal(t, tt.expected, Render(expr))
		})
	}
}

func TestNormalize_Omitted(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterSpec
	}{
		{"empty value", FilterSpec{Column: "status", Operator: OpEqual, RawValue: ""}},
		{"whitespace value", FilterSpec{Column: "status", Operator: OpContains, RawValue: "   "}},
		{"empty column", FilterSpec{Column: "", Operator: OpEqual, RawValue: "x"}},
		{"unknown operator", FilterSpec{Column: "status", Operator: "LIKE", RawValue: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := Normalize(tt.filter)
			assert.False(t, ok)
			assert.Nil(t, expr)
		})
	}
}

func TestInferNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		numeric bool
	}{
		{"42", 42, true},
		{" 42 ", 42, true},
		{"3.14", 3.14, true},
		{"3.", 3, true},
		{".5", 0.5, true},
		{"+5", 5, true},
		{"-0", 0, true},
		{"-3.5", 0, false},
		{"1e-7", 0, false},
		{"abc", 0, false},
		{"1_000", 0, false},
		{"nan", 0, false},
		{"1e400", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := InferNumber(tt.raw)
			assert.Equal(t, tt.numeric, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBound(t *testing.T) {
	f, err := ParseBound(" -2.5 ")
	require.NoError(t, err)
	assert.InDelta(t, -2.5, f, 0)

	for _, raw := range []string{"nan", "NaN", "inf", "-Inf", "+Infinity"} {
		_, err := ParseBound(raw)
		assert.ErrorIs(t, err, ErrNonFiniteBound, raw)
	}

	_, err = ParseBound("abc")
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "42", FormatNumber(42.0))
	assert.Equal(t, "-7", FormatNumber(-7))
	assert.Equal(t, "0", FormatNumber(-0.0))
	assert.Equal(t, "3.14", FormatNumber(3.14))
	assert.Equal(t, "0.0000001", FormatNumber(0.0000001))
}

func TestOperator(t *testing.T) {
	op, ok := ParseOperator(" begins_with ")
	require.True(t, ok)
	assert.Equal(t, OpBeginsWith, op)
	assert.True(t, op.IsPattern())
	assert.Equal(t, "Begins With", op.Label())

	_, ok = ParseOperator("LIKE")
	assert.False(t, ok)

	assert.False(t, OpGreaterOrEqual.IsPattern())
	assert.Equal(t, ">=", OpGreaterOrEqual.Label())
	assert.Equal(t, "Contains", OpContains.Label())
}
