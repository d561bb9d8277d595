package services

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// templateDocumentSchema is the JSON Schema every imported template
// document must satisfy before being decoded. It checks document shape
// only; graph and form semantics are left to the advisory report.
const templateDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "target_module", "workflow", "form_schema"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "target_module": {"type": "string", "enum": ["service", "production"]},
    "workflow": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "role": {"type": "string"},
          "type": {"type": "string", "enum": ["start", "end", "process", "exclusive", "parallel"]},
          "next_nodes": {"type": ["array", "null"], "items": {"type": "string"}}
        }
      }
    },
    "form_schema": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "label", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "required": {"type": "boolean"},
          "width": {"type": "string", "enum": ["half", "full"]},
          "options": {"type": "array", "items": {"type": "string"}},
          "placeholder": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

// ValidateTemplateDocument checks an import payload against the template
// document schema. Failures are wrapped in ErrInvalidTemplateDocument.
func ValidateTemplateDocument(document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(templateDocumentSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplateDocument, err)
	}

	if result.Valid() {
		return nil
	}

	findings := make([]string, 0, len(result.Errors()))
	for _, finding := range result.Errors() {
		findings = append(findings, finding.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidTemplateDocument, strings.Join(findings, "; "))
}
