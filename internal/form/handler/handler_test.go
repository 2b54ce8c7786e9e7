package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lendkit/internal/form/engine"
	"lendkit/internal/form/models"
	"lendkit/internal/form/service"
	"lendkit/internal/form/store"
	"lendkit/internal/scope"
	id "lendkit/pkg/domain"
	"lendkit/pkg/testutil"
)

func newFormFixture(t *testing.T) (http.Handler, *models.FormTemplate, id.TenantID) {
	t.Helper()
	templates := store.NewInMemory(scope.New(nil))
	tenantID := testutil.NewTenantID(t)

	tpl := &models.FormTemplate{
		ID:   id.TemplateID(uuid.New()),
		Name: "Application",
		Sections: []models.Section{
			{
				Key:      "fha",
				Title:    "FHA Details",
				Products: []string{"FHA"},
				Fields:   []models.Field{{Name: "fha_case_number", Label: "FHA Case Number"}},
			},
			{
				Key:    "general",
				Title:  "General",
				Fields: []models.Field{{Name: "income", Label: "Income", Validation: models.Validation{Required: true}}},
			},
		},
	}
	if err := templates.Create(testutil.ScopedContext(tenantID), tpl); err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}

	h := New(service.New(templates), nil)
	r := chi.NewRouter()
	h.Register(r)
	return r, tpl, tenantID
}

func TestHandleEvaluate(t *testing.T) {
	router, tpl, tenantID := newFormFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forms/"+tpl.ID.String()+"/evaluate", EvaluateFormRequest{
		Context: BorrowerContext{SelectedProduct: "VA"},
	})
	rec := testutil.DoRequest(router, testutil.WithTenant(req, tenantID))

	testutil.AssertStatus(t, rec, http.StatusOK)
	out := testutil.UnmarshalResponse[engine.EvaluatedForm](t, rec)
	if len(out.Sections) != 1 || out.Sections[0].Key != "general" {
		t.Fatalf("expected only the general section, got %+v", out.Sections)
	}
}

func TestHandleEvaluateUnknownTemplate(t *testing.T) {
	router, _, tenantID := newFormFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forms/"+uuid.NewString()+"/evaluate", EvaluateFormRequest{})
	rec := testutil.DoRequest(router, testutil.WithTenant(req, tenantID))

	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleEvaluateBadTemplateID(t *testing.T) {
	router, _, tenantID := newFormFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forms/not-a-uuid/evaluate", EvaluateFormRequest{})
	rec := testutil.DoRequest(router, testutil.WithTenant(req, tenantID))

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleEvaluateCrossTenant(t *testing.T) {
	router, tpl, _ := newFormFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forms/"+tpl.ID.String()+"/evaluate", EvaluateFormRequest{})
	rec := testutil.DoRequest(router, testutil.WithTenant(req, testutil.NewTenantID(t)))

	// Indistinguishable from a template that does not exist.
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleValidate(t *testing.T) {
	router, tpl, tenantID := newFormFixture(t)

	t.Run("invalid submission", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/forms/"+tpl.ID.String()+"/validate", ValidateFormRequest{
			FormData: map[string]any{},
		})
		rec := testutil.DoRequest(router, testutil.WithTenant(req, tenantID))

		testutil.AssertStatus(t, rec, http.StatusOK)
		result := testutil.UnmarshalResponse[engine.ValidationResult](t, rec)
		if result.Valid {
			t.Fatal("expected invalid result")
		}
		if _, ok := result.Errors["income"]; !ok {
			t.Fatalf("expected income error, got %+v", result.Errors)
		}
	})

	t.Run("valid submission", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/forms/"+tpl.ID.String()+"/validate", ValidateFormRequest{
			FormData: map[string]any{"income": 50000},
		})
		rec := testutil.DoRequest(router, testutil.WithTenant(req, tenantID))

		testutil.AssertStatus(t, rec, http.StatusOK)
		result := testutil.UnmarshalResponse[engine.ValidationResult](t, rec)
		if !result.Valid {
			t.Fatalf("expected valid result, got errors %+v", result.Errors)
		}
	})
}
