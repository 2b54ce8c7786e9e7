package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Operator is the comparison verb of a field condition. Operators arrive as
// open strings from stored rule data, so unknown values are possible at
// runtime; Compare fails closed on them.
type Operator string

const (
	OpGTE       Operator = ">="
	OpLTE       Operator = "<="
	OpGT        Operator = ">"
	OpLT        Operator = "<"
	OpEq        Operator = "=="
	OpStrictEq  Operator = "==="
	OpNeq       Operator = "!="
	OpStrictNeq Operator = "!=="
	OpIncludes  Operator = "includes"
	OpIn        Operator = "in"
)

// Known reports whether op is a recognized operator. Rule entries without a
// recognized operator are skipped by the eligibility engine.
func (op Operator) Known() bool {
	switch op {
	case OpGTE, OpLTE, OpGT, OpLT, OpEq, OpStrictEq, OpNeq, OpStrictNeq, OpIncludes, OpIn:
		return true
	}
	return false
}

// Compare evaluates a single comparison between a resolved value and a
// literal or list. Semantics:
//
//   - >=, <=, >, <: both sides are coerced to numbers; a side that is not
//     numerically coercible makes the comparison false.
//   - ==, ===: numeric equality when both sides coerce, otherwise deep
//     equality, otherwise string-cast equality.
//   - !=, !==: negation of the same.
//   - includes: value must be a list containing expected.
//   - in: expected must be a list containing value.
//   - anything else: false (fail closed, never an error).
func Compare(value any, op Operator, expected any) bool {
	switch op {
	case OpGTE, OpLTE, OpGT, OpLT:
		a, aok := toNumber(value)
		b, bok := toNumber(expected)
		if !aok || !bok {
			return false
		}
		switch op {
		case OpGTE:
			return a >= b
		case OpLTE:
			return a <= b
		case OpGT:
			return a > b
		default:
			return a < b
		}
	case OpEq, OpStrictEq:
		return looseEqual(value, expected)
	case OpNeq, OpStrictNeq:
		return !looseEqual(value, expected)
	case OpIncludes:
		list, ok := toList(value)
		if !ok {
			return false
		}
		return listContains(list, expected)
	case OpIn:
		list, ok := toList(expected)
		if !ok {
			return false
		}
		return listContains(list, value)
	default:
		return false
	}
}

// toNumber coerces v to a float64. Non-numeric values (including strings
// that don't parse, nil, and NaN) report false, which makes every ordered
// comparison against them false.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// looseEqual compares two values the way stored rules expect: numbers first
// (so 640 matches "640"), then direct equality, then string-cast equality.
func looseEqual(a, b any) bool {
	if fa, aok := toNumber(a); aok {
		if fb, bok := toNumber(b); bok {
			return fa == fb
		}
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// toList normalizes slices of any element type into []any.
func toList(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func listContains(list []any, v any) bool {
	for _, item := range list {
		if looseEqual(item, v) {
			return true
		}
	}
	return false
}
