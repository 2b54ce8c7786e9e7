// Package engine implements the eligibility engine: it applies the rule
// evaluator to a product's constraints to decide whether a borrower
// qualifies, distinguishing hard failures from soft warnings. Pure functions
// throughout; malformed rules degrade to skipped or failing checks, never to
// a crash.
package engine

import (
	"slices"
	"strings"

	"lendkit/internal/product/models"
	"lendkit/internal/rules"
)

// CheckEligibility evaluates a borrower against one product.
//
// The check order is fixed. A disabled product and an unsupported property
// type short-circuit immediately; every later step runs to completion
// regardless of earlier failures within it, so the caller receives the full
// set of reasons, missing fields, and warnings in one pass.
func CheckEligibility(p *models.Product, formData map[string]any, loanPurpose, propertyType string) models.EligibilityCheck {
	check := models.EligibilityCheck{
		Eligible:      true,
		Reasons:       []string{},
		MissingFields: []string{},
		Warnings:      []string{},
	}

	if !p.Enabled {
		check.Eligible = false
		check.Reasons = append(check.Reasons, "Product is not enabled")
		return check
	}

	if propertyType != "" && len(p.PropertyTypes) > 0 && !slices.Contains(p.PropertyTypes, propertyType) {
		check.Eligible = false
		check.Reasons = append(check.Reasons, "Property type "+propertyType+" is not supported for this product")
		return check
	}

	for _, path := range p.RequiredFields {
		if !rules.ResolvePresent(formData, path) {
			check.MissingFields = append(check.MissingFields, path)
		}
	}
	if len(check.MissingFields) > 0 {
		check.Eligible = false
		check.Reasons = append(check.Reasons, "Missing required fields: "+strings.Join(check.MissingFields, ", "))
	}

	for _, rule := range p.ConditionalLogic {
		if !rule.Operator.Known() {
			continue
		}
		if rulePasses(rule, formData) {
			continue
		}
		check.Eligible = false
		check.Reasons = append(check.Reasons, ruleMessage(rule))
	}

	for _, rule := range p.UnderwritingRules {
		if !rule.Operator.Known() {
			continue
		}
		if rulePasses(rule, formData) {
			continue
		}
		if rule.Severity == models.SeverityWarning {
			check.Warnings = append(check.Warnings, "Warning: "+ruleMessage(rule))
			continue
		}
		check.Eligible = false
		check.Reasons = append(check.Reasons, ruleMessage(rule))
	}

	return check
}

// EligibleProducts filters the input, keeping only products the borrower is
// eligible for. Input order is preserved.
func EligibleProducts(products []*models.Product, formData map[string]any, loanPurpose, propertyType string) []*models.Product {
	eligible := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if CheckEligibility(p, formData, loanPurpose, propertyType).Eligible {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

func rulePasses(rule models.Rule, formData map[string]any) bool {
	value, _ := rules.Resolve(formData, rule.Field)
	return rules.Compare(value, rule.Operator, rule.Value)
}

func ruleMessage(rule models.Rule) string {
	if rule.Message != "" {
		return rule.Message
	}
	if rule.Name != "" {
		return rule.Name + " requirement not met"
	}
	return "Requirement on " + rule.Field + " not met"
}
