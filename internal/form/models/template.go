package models

import (
	"encoding/json"
	"time"

	"lendkit/internal/rules"
	id "lendkit/pkg/domain"
)

// FormTemplate is a tenant-owned definition of an application form: an
// ordered list of sections, each an ordered list of fields. Templates are
// authored by tenant administrators and arrive from the storage layer as
// already-deserialized structured data.
type FormTemplate struct {
	ID        id.TemplateID `json:"id"`
	TenantID  id.TenantID   `json:"tenant_id"`
	Name      string        `json:"name"`
	Sections  []Section     `json:"sections"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TenantRef and StampTenant implement scope.Entity.
func (t *FormTemplate) TenantRef() id.TenantID           { return t.TenantID }
func (t *FormTemplate) StampTenant(tenantID id.TenantID) { t.TenantID = tenantID }

// Section groups fields. An empty Products set means the section applies to
// every product; a non-empty set restricts it to those products. Visible is
// the section's visibility rule; nil means always visible.
type Section struct {
	Key      string          `json:"key"`
	Title    string          `json:"title"`
	Products []string        `json:"products,omitempty"`
	Visible  rules.Condition `json:"-"`
	Fields   []Field         `json:"fields"`
}

// Field is a single form input. Product gating and visibility rules apply
// independently of the enclosing section's.
type Field struct {
	Name       string          `json:"name"`
	Label      string          `json:"label"`
	Type       string          `json:"type"`
	Products   []string        `json:"products,omitempty"`
	Visible    rules.Condition `json:"-"`
	Validation Validation      `json:"validation"`
	Options    []Option        `json:"options,omitempty"`
}

// Validation carries field-level constraints. Only Required participates in
// the core validation pass; the rest is metadata surfaced to the client.
type Validation struct {
	Required bool     `json:"required"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
}

// Option is a selectable choice for enumerated fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Custom JSON for Section and Field: the visibility rule is stored in the
// shared condition wire format and decoded into tagged variants at the
// boundary, so the engine never sees an untyped rule object.

func (s Section) MarshalJSON() ([]byte, error) {
	type alias Section
	visible, err := marshalCondition(s.Visible)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		Visible json.RawMessage `json:"visible,omitempty"`
	}{alias(s), visible})
}

func (s *Section) UnmarshalJSON(b []byte) error {
	type alias Section
	aux := struct {
		*alias
		Visible json.RawMessage `json:"visible,omitempty"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	cond, err := rules.UnmarshalCondition(aux.Visible)
	if err != nil {
		return err
	}
	s.Visible = cond
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	type alias Field
	visible, err := marshalCondition(f.Visible)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		Visible json.RawMessage `json:"visible,omitempty"`
	}{alias(f), visible})
}

func (f *Field) UnmarshalJSON(b []byte) error {
	type alias Field
	aux := struct {
		*alias
		Visible json.RawMessage `json:"visible,omitempty"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	cond, err := rules.UnmarshalCondition(aux.Visible)
	if err != nil {
		return err
	}
	f.Visible = cond
	return nil
}

// marshalCondition returns nil (omitted) for a nil rule instead of a JSON
// null, keeping stored payloads compact.
func marshalCondition(c rules.Condition) (json.RawMessage, error) {
	if c == nil {
		return nil, nil
	}
	return rules.MarshalCondition(c)
}
