// Package rules implements the declarative rule evaluation core: dotted-path
// resolution over nested borrower data, single-comparison evaluation, and a
// recursive evaluator over condition trees.
//
// Everything in this package is pure and stateless. Identical inputs always
// produce identical output, there is no shared mutable state, and functions
// never panic on malformed input: a rule that cannot be evaluated fails
// closed (evaluates to false) rather than crashing the request.
package rules

import "strings"

// Resolve walks a dot-separated path through nested map data.
// Returns (value, true) when every segment resolves, including a stored nil;
// returns (nil, false) as soon as an intermediate value is absent or not a
// traversable map, at any depth.
func Resolve(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = data
	for part := range strings.SplitSeq(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Present reports whether a resolved value counts as "provided" for
// required-field checks: nil and the empty string are treated as missing.
func Present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// ResolvePresent combines Resolve and Present: the path must resolve and the
// stored value must count as provided.
func ResolvePresent(data map[string]any, path string) bool {
	v, ok := Resolve(data, path)
	return ok && Present(v)
}
