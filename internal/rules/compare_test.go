package rules

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareOrdered(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		op       Operator
		expected any
		want     bool
	}{
		{"gte true", 700, OpGTE, 640, true},
		{"gte equal", 640, OpGTE, 640, true},
		{"gte false", 600, OpGTE, 640, false},
		{"lte true", 0.4, OpLTE, 0.43, true},
		{"gt boundary", 640, OpGT, 640, false},
		{"lt true", 500, OpLT, 640, true},
		{"numeric string value", "700", OpGTE, 640, true},
		{"numeric string expected", 700, OpGTE, "640", true},
		{"json number", json.Number("700"), OpGT, 640, true},
		{"non-numeric string", "abc", OpGTE, 640, false},
		{"nil value", nil, OpGTE, 640, false},
		{"nil expected", 700, OpGTE, nil, false},
		{"nan value", math.NaN(), OpGTE, 640, false},
		{"nan expected", 700, OpLT, math.NaN(), false},
		{"bool is not numeric", true, OpGT, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.value, tc.op, tc.expected))
		})
	}
}

func TestCompareEquality(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		op       Operator
		expected any
		want     bool
	}{
		{"numbers equal", 640, OpEq, 640.0, true},
		{"number vs numeric string", 640, OpEq, "640", true},
		{"strings equal", "purchase", OpEq, "purchase", true},
		{"strings differ", "purchase", OpEq, "refinance", false},
		{"strict behaves like loose", 640, OpStrictEq, "640", true},
		{"neq true", "a", OpNeq, "b", true},
		{"neq false", 5, OpNeq, 5, false},
		{"strict neq", 5, OpStrictNeq, "5", false},
		{"nil vs nil", nil, OpEq, nil, true},
		{"nil vs value", nil, OpEq, "x", false},
		{"bools", true, OpEq, true, true},
		{"bool vs string cast", true, OpEq, "true", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.value, tc.op, tc.expected))
		})
	}
}

func TestCompareMembership(t *testing.T) {
	t.Run("includes hit", func(t *testing.T) {
		assert.True(t, Compare([]any{"a", "b"}, OpIncludes, "b"))
	})
	t.Run("includes miss", func(t *testing.T) {
		assert.False(t, Compare([]any{"a", "b"}, OpIncludes, "c"))
	})
	t.Run("includes non-list value", func(t *testing.T) {
		assert.False(t, Compare("ab", OpIncludes, "a"))
	})
	t.Run("includes typed slice", func(t *testing.T) {
		assert.True(t, Compare([]string{"single_family", "condo"}, OpIncludes, "condo"))
	})
	t.Run("in hit", func(t *testing.T) {
		assert.True(t, Compare("FHA", OpIn, []any{"FHA", "VA"}))
	})
	t.Run("in with numeric coercion", func(t *testing.T) {
		assert.True(t, Compare("640", OpIn, []any{640, 700}))
	})
	t.Run("in non-list expected", func(t *testing.T) {
		assert.False(t, Compare("FHA", OpIn, "FHA"))
	})
	t.Run("in nil expected", func(t *testing.T) {
		assert.False(t, Compare("FHA", OpIn, nil))
	})
}

func TestCompareUnknownOperator(t *testing.T) {
	assert.False(t, Compare(1, Operator("matches"), 1))
	assert.False(t, Compare(1, Operator(""), 1))
}

func TestOperatorKnown(t *testing.T) {
	for _, op := range []Operator{OpGTE, OpLTE, OpGT, OpLT, OpEq, OpStrictEq, OpNeq, OpStrictNeq, OpIncludes, OpIn} {
		assert.True(t, op.Known(), string(op))
	}
	assert.False(t, Operator("between").Known())
}
