// Package engine implements the visibility engine: it applies the rule
// evaluator to a form template to decide which sections and fields a
// borrower sees, and validates submitted data against the visible required
// fields. Both entry points are pure functions of their arguments.
package engine

import (
	"slices"

	"lendkit/internal/form/models"
	"lendkit/internal/rules"
	id "lendkit/pkg/domain"
)

// EvaluatedForm is the borrower-facing projection of a template: only the
// sections and fields that passed their product gates and visibility rules,
// in template order.
type EvaluatedForm struct {
	TemplateID id.TemplateID      `json:"template_id"`
	Name       string             `json:"name"`
	Sections   []EvaluatedSection `json:"sections"`
}

type EvaluatedSection struct {
	Key    string           `json:"key"`
	Title  string           `json:"title"`
	Fields []EvaluatedField `json:"fields"`
}

type EvaluatedField struct {
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	Type       string            `json:"type"`
	Visible    bool              `json:"visible"`
	Required   bool              `json:"required"`
	Validation models.Validation `json:"validation"`
	Options    []models.Option   `json:"options,omitempty"`
}

// ValidationResult maps field names to human-readable problems. Valid is
// true iff no field produced an error.
type ValidationResult struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
}

// EvaluateForm projects a template through the borrower context.
//
// A section whose products set is non-empty is dropped entirely when the
// context's selected product is absent or not a member; its fields are never
// evaluated. Surviving sections then apply the same two checks per field,
// independently. Order is preserved throughout.
func EvaluateForm(tpl *models.FormTemplate, ec rules.EvalContext) EvaluatedForm {
	out := EvaluatedForm{
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		Sections:   make([]EvaluatedSection, 0, len(tpl.Sections)),
	}

	for _, section := range tpl.Sections {
		if !productGate(section.Products, ec.SelectedProduct) {
			continue
		}
		if !rules.Evaluate(section.Visible, ec) {
			continue
		}

		es := EvaluatedSection{
			Key:    section.Key,
			Title:  section.Title,
			Fields: make([]EvaluatedField, 0, len(section.Fields)),
		}
		for _, field := range section.Fields {
			if !productGate(field.Products, ec.SelectedProduct) {
				continue
			}
			if !rules.Evaluate(field.Visible, ec) {
				continue
			}
			es.Fields = append(es.Fields, EvaluatedField{
				Name:       field.Name,
				Label:      field.Label,
				Type:       field.Type,
				Visible:    true,
				Required:   field.Validation.Required,
				Validation: field.Validation,
				Options:    field.Options,
			})
		}
		out.Sections = append(out.Sections, es)
	}
	return out
}

// ValidateFormData checks submitted data against the template. Visibility is
// evaluated with the submitted values merged into the context, so rules may
// reference them. Only visible required fields can produce errors: a hidden
// field cannot be "missing".
func ValidateFormData(tpl *models.FormTemplate, formData map[string]any, ec rules.EvalContext) ValidationResult {
	evaluated := EvaluateForm(tpl, ec.WithFormData(formData))

	result := ValidationResult{Valid: true, Errors: make(map[string][]string)}
	for _, section := range evaluated.Sections {
		for _, field := range section.Fields {
			if !field.Required {
				continue
			}
			if rules.ResolvePresent(formData, field.Name) {
				continue
			}
			result.Errors[field.Name] = append(result.Errors[field.Name], field.Label+" is required")
			result.Valid = false
		}
	}
	return result
}

// productGate passes when the set is empty (applies to all products) or the
// selected product is a member. No selection never passes a non-empty set.
func productGate(products []string, selected string) bool {
	if len(products) == 0 {
		return true
	}
	return selected != "" && slices.Contains(products, selected)
}
