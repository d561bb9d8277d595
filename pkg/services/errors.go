// Package services provides the application operations exposed to the HTTP
// surface: template authoring and the order lifecycle.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/workflow"
)

var (
	// ErrTemplateNotFound is returned when a process template is not found.
	ErrTemplateNotFound = persistence.ErrTemplateNotFound

	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = persistence.ErrOrderNotFound

	// ErrInvalidTemplateDocument indicates an imported template document
	// failed JSON Schema validation.
	ErrInvalidTemplateDocument = errors.New("invalid template document")

	// ErrEmptyAssignee is returned when a reassignment names nobody.
	ErrEmptyAssignee = errors.New("assignee cannot be empty")
)

// FieldValidationError carries the per-field messages of a rejected form
// submission. It blocks only that submission; nothing is persisted.
type FieldValidationError struct {
	Fields map[string]string // field ID -> message
}

func (e *FieldValidationError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return fmt.Sprintf("form validation failed for fields: %s", strings.Join(ids, ", "))
}

// IsFieldValidation checks whether err is a per-field form rejection,
// returning the field messages when it is.
func IsFieldValidation(err error) (map[string]string, bool) {
	var target *FieldValidationError
	if errors.As(err, &target) {
		return target.Fields, true
	}

	return nil, false
}

// IsPermissionDenied checks for a role-gate refusal.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, workflow.ErrPermissionDenied)
}

// IsIllegalTransition checks for a refused transition target.
func IsIllegalTransition(err error) bool {
	return errors.Is(err, workflow.ErrIllegalTransition) || errors.Is(err, workflow.ErrNotTemplated)
}

// IsStructural checks for a broken-template refusal, reported distinctly so
// the author can be pointed at the template.
func IsStructural(err error) bool {
	return workflow.IsStructural(err)
}
