package rules

import "slices"

// EvalContext is the ephemeral borrower context a condition tree is
// evaluated against. It is constructed per request and never persisted.
type EvalContext struct {
	SelectedProduct string
	LoanPurpose     string
	PropertyType    string
	FormData        map[string]any
}

// WithFormData returns a copy of the context with submitted data merged over
// the existing form data, so visibility rules can reference submitted values
// during validation.
func (ec EvalContext) WithFormData(formData map[string]any) EvalContext {
	if len(formData) == 0 {
		return ec
	}
	merged := make(map[string]any, len(ec.FormData)+len(formData))
	for k, v := range ec.FormData {
		merged[k] = v
	}
	for k, v := range formData {
		merged[k] = v
	}
	ec.FormData = merged
	return ec
}

// Condition is a closed set of rule variants. A nil Condition means "no
// rule", which always passes. The only open surface is the Operator string
// inside FieldCondition; an unrecognized condition shape cannot be
// constructed, only an unrecognized operator stored.
type Condition interface {
	isCondition()
}

// FieldCondition compares a resolved field value against a literal or list.
type FieldCondition struct {
	Field    string
	Operator Operator
	Value    any
}

// AndCondition passes when every sub-condition passes. Empty is true.
type AndCondition struct {
	All []Condition
}

// OrCondition passes when any sub-condition passes. Empty is false.
type OrCondition struct {
	Any []Condition
}

// ProductCondition passes when the context's selected product is one of the
// listed products. No selected product means no match.
type ProductCondition struct {
	Products []string
}

// PurposeCondition passes when the context's loan purpose is one of the
// listed purposes.
type PurposeCondition struct {
	Purposes []string
}

func (FieldCondition) isCondition()   {}
func (AndCondition) isCondition()     {}
func (OrCondition) isCondition()      {}
func (ProductCondition) isCondition() {}
func (PurposeCondition) isCondition() {}

// Evaluate walks a condition tree against the borrower context.
// AND short-circuits on the first false, OR on the first true. The function
// is pure: no side effects, no dependency on anything but its arguments.
func Evaluate(cond Condition, ec EvalContext) bool {
	switch c := cond.(type) {
	case nil:
		return true
	case FieldCondition:
		v, _ := Resolve(ec.FormData, c.Field)
		return Compare(v, c.Operator, c.Value)
	case AndCondition:
		for _, sub := range c.All {
			if !Evaluate(sub, ec) {
				return false
			}
		}
		return true
	case OrCondition:
		for _, sub := range c.Any {
			if Evaluate(sub, ec) {
				return true
			}
		}
		return false
	case ProductCondition:
		return ec.SelectedProduct != "" && slices.Contains(c.Products, ec.SelectedProduct)
	case PurposeCondition:
		return ec.LoanPurpose != "" && slices.Contains(c.Purposes, ec.LoanPurpose)
	default:
		// Unreachable for the closed set above; fail closed regardless.
		return false
	}
}
