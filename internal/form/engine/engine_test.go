package engine

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendkit/internal/form/models"
	"lendkit/internal/rules"
	id "lendkit/pkg/domain"
)

func newTemplate(sections ...models.Section) *models.FormTemplate {
	return &models.FormTemplate{
		ID:       id.TemplateID(uuid.New()),
		TenantID: id.TenantID(uuid.New()),
		Name:     "Loan Application",
		Sections: sections,
	}
}

func TestEvaluateFormProductGate(t *testing.T) {
	tpl := newTemplate(
		models.Section{Key: "s1", Title: "FHA Details", Products: []string{"FHA"}},
		models.Section{Key: "s2", Title: "General"},
	)

	t.Run("selected product outside the gate drops the section", func(t *testing.T) {
		out := EvaluateForm(tpl, rules.EvalContext{SelectedProduct: "VA"})
		require.Len(t, out.Sections, 1)
		assert.Equal(t, "s2", out.Sections[0].Key)
	})

	t.Run("selected product inside the gate keeps both", func(t *testing.T) {
		out := EvaluateForm(tpl, rules.EvalContext{SelectedProduct: "FHA"})
		require.Len(t, out.Sections, 2)
		assert.Equal(t, "s1", out.Sections[0].Key)
		assert.Equal(t, "s2", out.Sections[1].Key)
	})

	t.Run("no selection drops gated sections", func(t *testing.T) {
		out := EvaluateForm(tpl, rules.EvalContext{})
		require.Len(t, out.Sections, 1)
		assert.Equal(t, "s2", out.Sections[0].Key)
	})
}

func TestEvaluateFormVisibilityRules(t *testing.T) {
	tpl := newTemplate(models.Section{
		Key: "employment",
		Visible: rules.FieldCondition{
			Field: "employment.status", Operator: rules.OpEq, Value: "employed",
		},
		Fields: []models.Field{
			{Name: "employer", Label: "Employer"},
			{
				Name:  "self_employed_years",
				Label: "Years Self-Employed",
				Visible: rules.FieldCondition{
					Field: "employment.type", Operator: rules.OpEq, Value: "self",
				},
			},
		},
	})

	t.Run("section rule fails, fields never appear", func(t *testing.T) {
		out := EvaluateForm(tpl, rules.EvalContext{
			FormData: map[string]any{"employment": map[string]any{"status": "retired"}},
		})
		assert.Empty(t, out.Sections)
	})

	t.Run("field rules apply independently", func(t *testing.T) {
		out := EvaluateForm(tpl, rules.EvalContext{
			FormData: map[string]any{"employment": map[string]any{"status": "employed", "type": "w2"}},
		})
		require.Len(t, out.Sections, 1)
		require.Len(t, out.Sections[0].Fields, 1)
		assert.Equal(t, "employer", out.Sections[0].Fields[0].Name)
	})

	t.Run("all fields visible when their rules pass", func(t *testing.T) {
		out := EvaluateForm(tpl, rules.EvalContext{
			FormData: map[string]any{"employment": map[string]any{"status": "employed", "type": "self"}},
		})
		require.Len(t, out.Sections, 1)
		assert.Len(t, out.Sections[0].Fields, 2)
	})
}

func TestEvaluateFormKeepsEmptySections(t *testing.T) {
	tpl := newTemplate(models.Section{
		Key: "extras",
		Fields: []models.Field{
			{Name: "vip_code", Products: []string{"Jumbo"}},
		},
	})

	out := EvaluateForm(tpl, rules.EvalContext{SelectedProduct: "FHA"})
	require.Len(t, out.Sections, 1)
	assert.Empty(t, out.Sections[0].Fields)
}

func TestEvaluateFormDeterministic(t *testing.T) {
	tpl := newTemplate(
		models.Section{
			Key:      "a",
			Products: []string{"FHA", "VA"},
			Fields: []models.Field{
				{Name: "f1", Visible: rules.OrCondition{Any: []rules.Condition{
					rules.FieldCondition{Field: "x", Operator: rules.OpGT, Value: 0},
					rules.PurposeCondition{Purposes: []string{"purchase"}},
				}}},
				{Name: "f2"},
			},
		},
		models.Section{Key: "b", Fields: []models.Field{{Name: "f3"}}},
	)
	ec := rules.EvalContext{
		SelectedProduct: "VA",
		LoanPurpose:     "purchase",
		FormData:        map[string]any{"x": 1.0},
	}

	first, err := json.Marshal(EvaluateForm(tpl, ec))
	require.NoError(t, err)
	for range 10 {
		next, err := json.Marshal(EvaluateForm(tpl, ec))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(next))
	}
}

func TestValidateFormData(t *testing.T) {
	tpl := newTemplate(models.Section{
		Key: "identity",
		Fields: []models.Field{
			{Name: "ssn", Label: "SSN", Validation: models.Validation{Required: true}},
			{Name: "income", Label: "Income", Validation: models.Validation{Required: true}},
			{Name: "nickname", Label: "Nickname"},
			{
				Name:       "co_borrower_ssn",
				Label:      "Co-Borrower SSN",
				Validation: models.Validation{Required: true},
				Visible: rules.FieldCondition{
					Field: "has_co_borrower", Operator: rules.OpEq, Value: true,
				},
			},
		},
	})

	t.Run("missing required fields fail", func(t *testing.T) {
		result := ValidateFormData(tpl, map[string]any{"ssn": "123-45-6789"}, rules.EvalContext{})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"Income is required"}, result.Errors["income"])
		assert.NotContains(t, result.Errors, "ssn")
	})

	t.Run("hidden required field never errors", func(t *testing.T) {
		result := ValidateFormData(tpl, map[string]any{
			"ssn": "123-45-6789", "income": 50000,
		}, rules.EvalContext{})
		assert.True(t, result.Valid)
		assert.NotContains(t, result.Errors, "co_borrower_ssn")
	})

	t.Run("visibility sees submitted values", func(t *testing.T) {
		result := ValidateFormData(tpl, map[string]any{
			"ssn": "123-45-6789", "income": 50000, "has_co_borrower": true,
		}, rules.EvalContext{})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"Co-Borrower SSN is required"}, result.Errors["co_borrower_ssn"])
	})

	t.Run("empty string counts as missing", func(t *testing.T) {
		result := ValidateFormData(tpl, map[string]any{
			"ssn": "", "income": 50000,
		}, rules.EvalContext{})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"SSN is required"}, result.Errors["ssn"])
	})

	t.Run("all good", func(t *testing.T) {
		result := ValidateFormData(tpl, map[string]any{
			"ssn": "123-45-6789", "income": 50000,
		}, rules.EvalContext{})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})
}
