package rules

import (
	"encoding/json"

	dErrors "lendkit/pkg/domain-errors"
)

// Stored rule wire format, shared by HTTP payloads and JSONB columns:
//
//	null                                      -> no rule (always passes)
//	{"all": [cond, ...]}                      -> AndCondition
//	{"any": [cond, ...]}                      -> OrCondition
//	{"products": ["FHA", ...]}                -> ProductCondition
//	{"purposes": ["purchase", ...]}           -> PurposeCondition
//	{"field": "p", "operator": op, "value": v} -> FieldCondition
//
// Any other shape is rejected at decode time, so the evaluator only ever
// sees the closed variant set. Operators stay open strings by design.

// UnmarshalCondition decodes a stored condition tree from JSON.
func UnmarshalCondition(b []byte) (Condition, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed condition")
	}
	return DecodeCondition(raw)
}

// DecodeCondition converts already-deserialized structured data (as handed
// over by the storage layer) into a tagged condition variant.
func DecodeCondition(raw any) (Condition, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "condition must be an object")
	}

	if subs, ok := m["all"]; ok {
		conds, err := decodeList(subs)
		if err != nil {
			return nil, err
		}
		return AndCondition{All: conds}, nil
	}
	if subs, ok := m["any"]; ok {
		conds, err := decodeList(subs)
		if err != nil {
			return nil, err
		}
		return OrCondition{Any: conds}, nil
	}
	if products, ok := m["products"]; ok {
		names, err := decodeStrings(products, "products")
		if err != nil {
			return nil, err
		}
		return ProductCondition{Products: names}, nil
	}
	if purposes, ok := m["purposes"]; ok {
		names, err := decodeStrings(purposes, "purposes")
		if err != nil {
			return nil, err
		}
		return PurposeCondition{Purposes: names}, nil
	}

	field, fok := m["field"].(string)
	op, ook := m["operator"].(string)
	if !fok || !ook || field == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unrecognized condition shape")
	}
	return FieldCondition{Field: field, Operator: Operator(op), Value: m["value"]}, nil
}

// MarshalCondition encodes a condition tree back into its wire format.
func MarshalCondition(c Condition) ([]byte, error) {
	return json.Marshal(encodeCondition(c))
}

func encodeCondition(c Condition) any {
	switch v := c.(type) {
	case nil:
		return nil
	case FieldCondition:
		return map[string]any{"field": v.Field, "operator": string(v.Operator), "value": v.Value}
	case AndCondition:
		return map[string]any{"all": encodeList(v.All)}
	case OrCondition:
		return map[string]any{"any": encodeList(v.Any)}
	case ProductCondition:
		return map[string]any{"products": v.Products}
	case PurposeCondition:
		return map[string]any{"purposes": v.Purposes}
	default:
		return nil
	}
}

func encodeList(conds []Condition) []any {
	out := make([]any, len(conds))
	for i, c := range conds {
		out[i] = encodeCondition(c)
	}
	return out
}

func decodeList(raw any) ([]Condition, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "combinator requires a list of conditions")
	}
	conds := make([]Condition, 0, len(items))
	for _, item := range items {
		c, err := DecodeCondition(item)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func decodeStrings(raw any, what string) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		if names, ok := raw.([]string); ok {
			return names, nil
		}
		return nil, dErrors.New(dErrors.CodeInvalidInput, what+" must be a list of strings")
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, dErrors.New(dErrors.CodeInvalidInput, what+" must be a list of strings")
		}
		names = append(names, s)
	}
	return names, nil
}
