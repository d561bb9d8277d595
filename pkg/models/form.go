// Package models defines the core domain models for template-driven business processes.
package models

// FieldType identifies the input affordance a form field renders as.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeUser     FieldType = "user"
	FieldTypeDept     FieldType = "dept"
	FieldTypeFile     FieldType = "file"
	FieldTypeDivider  FieldType = "divider"
	FieldTypeNote     FieldType = "note"
)

// FieldWidth is a layout hint for the form renderer.
type FieldWidth string

const (
	FieldWidthHalf FieldWidth = "half"
	FieldWidthFull FieldWidth = "full"
)

// FormField is one renderable input definition inside a template's form schema.
// The field ID is the stable storage key into an order's form data; Label is
// display-only and may be renamed without orphaning stored answers.
type FormField struct {
	ID          string     `json:"id"          validate:"required"`
	Label       string     `json:"label"       validate:"required"`
	Type        FieldType  `json:"type"        validate:"required"`
	Required    bool       `json:"required"`
	Width       FieldWidth `json:"width,omitempty"`
	Options     []string   `json:"options,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Description string     `json:"description,omitempty"`
}

// HasValue reports whether the field type carries a value contract.
// Dividers and notes are pure layout directives and never hold data.
func (f *FormField) HasValue() bool {
	return f.Type != FieldTypeDivider && f.Type != FieldTypeNote
}

// IsMulti reports whether the field stores an ordered set of strings
// rather than a single scalar.
func (f *FormField) IsMulti() bool {
	return f.Type == FieldTypeCheckbox
}

// NeedsOptions reports whether the field type is meaningless without a
// declared option list.
func (f *FormField) NeedsOptions() bool {
	switch f.Type {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// KnownFieldTypes lists every field type the renderer understands, in
// designer palette order.
func KnownFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeDate,
		FieldTypeTime,
		FieldTypeSelect,
		FieldTypeRadio,
		FieldTypeCheckbox,
		FieldTypeUser,
		FieldTypeDept,
		FieldTypeFile,
		FieldTypeDivider,
		FieldTypeNote,
	}
}

// IsKnownFieldType reports whether t is part of the renderer vocabulary.
func IsKnownFieldType(t FieldType) bool {
	for _, known := range KnownFieldTypes() {
		if t == known {
			return true
		}
	}

	return false
}
