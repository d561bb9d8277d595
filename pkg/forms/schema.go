package forms

import (
	"fmt"

	"github.com/flowdesk/flowdesk/pkg/models"
)

// SchemaIssue is one authoring problem in a form schema. Advisory during
// editing; blocking only when an order must capture data.
type SchemaIssue struct {
	FieldID string `json:"field_id,omitempty"`
	Message string `json:"message"`
}

// ValidateSchema reports every authoring defect in a form schema at once:
// duplicate IDs, duplicate labels, unknown field types, and choice fields
// without options. Labels stay unique even though storage is ID-keyed,
// because duplicate labels make the rendered form ambiguous to fill in.
func ValidateSchema(schema []models.FormField) []SchemaIssue {
	issues := make([]SchemaIssue, 0)

	seenIDs := make(map[string]bool, len(schema))
	seenLabels := make(map[string]bool, len(schema))

	for i := range schema {
		field := &schema[i]

		if field.ID == "" {
			issues = append(issues, SchemaIssue{Message: fmt.Sprintf("field %d has no id", i)})
		} else if seenIDs[field.ID] {
			issues = append(issues, SchemaIssue{FieldID: field.ID, Message: "duplicate field id"})
		}

		seenIDs[field.ID] = true

		if field.HasValue() {
			if seenLabels[field.Label] {
				issues = append(issues, SchemaIssue{FieldID: field.ID, Message: fmt.Sprintf("duplicate label %q", field.Label)})
			}

			seenLabels[field.Label] = true
		}

		if !models.IsKnownFieldType(field.Type) {
			issues = append(issues, SchemaIssue{FieldID: field.ID, Message: fmt.Sprintf("unknown field type %q", field.Type)})
		}

		if field.NeedsOptions() && len(field.Options) == 0 {
			issues = append(issues, SchemaIssue{FieldID: field.ID, Message: "choice field has no options"})
		}
	}

	return issues
}
