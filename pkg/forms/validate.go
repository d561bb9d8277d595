// Package forms interprets a template's form schema against the dynamic
// data bag of an order: requiredness validation, read-only projections,
// and controlled mutation.
package forms

import "github.com/flowdesk/flowdesk/pkg/models"

// RequiredMessage is the per-field error emitted for a missing answer.
const RequiredMessage = "required"

// Validate checks a data bag against a schema and returns one error message
// per offending field, keyed by field ID. All fields are checked so a single
// submission surfaces every problem at once; it never fails fast.
//
// Only requiredness is enforced. Layout fields (divider, note) never
// participate in data or errors, and optional fields never produce errors
// regardless of content.
func Validate(schema []models.FormField, data models.FormData) map[string]string {
	errs := make(map[string]string)

	for i := range schema {
		field := &schema[i]

		if !field.Required || !field.HasValue() {
			continue
		}

		value, ok := data[field.ID]
		if !ok || value.IsEmpty() {
			errs[field.ID] = RequiredMessage
		}
	}

	return errs
}
