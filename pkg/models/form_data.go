package models

import (
	"encoding/json"
	"fmt"
)

// FieldValue holds one captured answer. Scalar field types store Text;
// checkbox fields store Items. The wire shape depends on the kind: a plain
// JSON string for scalars, a JSON array of strings for multi-value fields.
type FieldValue struct {
	Text  string
	Items []string
	Multi bool
}

// StringValue wraps a scalar answer.
func StringValue(s string) FieldValue {
	return FieldValue{Text: s}
}

// MultiValue wraps a checkbox answer, preserving option order.
func MultiValue(items ...string) FieldValue {
	return FieldValue{Items: items, Multi: true}
}

// IsEmpty reports whether the value counts as unanswered: an empty string
// for scalars, an empty set for multi-value fields.
func (v FieldValue) IsEmpty() bool {
	if v.Multi {
		return len(v.Items) == 0
	}

	return v.Text == ""
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Multi {
		if v.Items == nil {
			return json.Marshal([]string{})
		}

		return json.Marshal(v.Items)
	}

	return json.Marshal(v.Text)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = FieldValue{Text: text}

		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*v = FieldValue{Items: items, Multi: true}

		return nil
	}

	return fmt.Errorf("field value must be a string or an array of strings, got %s", string(data))
}

// FormData is the dynamic data bag of an order instance, keyed by form field
// ID. A missing key means the field is unanswered.
type FormData map[string]FieldValue

// Clone returns a shallow-independent copy; Items slices are copied so the
// clone can be mutated without aliasing the original.
func (d FormData) Clone() FormData {
	if d == nil {
		return FormData{}
	}

	out := make(FormData, len(d))

	for key, value := range d {
		if value.Multi && value.Items != nil {
			items := make([]string, len(value.Items))
			copy(items, value.Items)
			value.Items = items
		}

		out[key] = value
	}

	return out
}

// MigrateLabelKeys rewrites a legacy label-keyed data bag into the ID-keyed
// form, matching entries against the schema by label. Keys that match no
// field label are carried over untouched so nothing is silently dropped.
func MigrateLabelKeys(schema []FormField, bag FormData) FormData {
	if len(bag) == 0 {
		return FormData{}
	}

	byLabel := make(map[string]string, len(schema))
	byID := make(map[string]bool, len(schema))

	for _, field := range schema {
		byLabel[field.Label] = field.ID
		byID[field.ID] = true
	}

	out := make(FormData, len(bag))

	for key, value := range bag {
		if byID[key] {
			out[key] = value

			continue
		}

		if id, ok := byLabel[key]; ok {
			out[id] = value

			continue
		}

		out[key] = value
	}

	return out
}
