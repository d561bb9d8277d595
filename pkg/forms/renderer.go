package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flowdesk/flowdesk/pkg/models"
)

// Unanswered is the explicit placeholder a read-only projection shows for
// absent values, instead of a blank.
const Unanswered = "unanswered"

var (
	// ErrUnknownField indicates a mutation targeted a field ID absent from
	// the schema.
	ErrUnknownField = errors.New("field does not exist in form schema")

	// ErrLayoutField indicates a mutation targeted a divider or note, which
	// carry no value contract.
	ErrLayoutField = errors.New("layout fields cannot hold a value")

	// ErrValueShape indicates a scalar value was supplied for a multi-value
	// field or vice versa.
	ErrValueShape = errors.New("value shape does not match field type")
)

// UploadError reports a storage backend failure while attaching a file.
// It names the field so callers can report the failure inline.
type UploadError struct {
	FieldID string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for field %s: %s", e.FieldID, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Uploader stores raw file content for a file field and returns the
// server-assigned reference the data bag keeps. The renderer's
// responsibility ends at writing that reference.
type Uploader interface {
	Upload(ctx context.Context, filename string, content []byte, mimeType string) (string, error)
}

// Apply returns a new data bag with exactly the addressed field replaced;
// every other entry is untouched. The input bag is never mutated.
func Apply(schema []models.FormField, data models.FormData, fieldID string, value models.FieldValue) (models.FormData, error) {
	field := findField(schema, fieldID)
	if field == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}

	if !field.HasValue() {
		return nil, fmt.Errorf("%w: %s", ErrLayoutField, fieldID)
	}

	if field.IsMulti() != value.Multi {
		return nil, fmt.Errorf("%w: field %s", ErrValueShape, fieldID)
	}

	out := data.Clone()
	out[fieldID] = value

	return out, nil
}

// AttachFile runs the upload collaborator for a file field and writes the
// returned server-assigned name into a new data bag. An upload failure
// leaves the field unanswered and touches nothing else.
func AttachFile(ctx context.Context, schema []models.FormField, data models.FormData, fieldID string, uploader Uploader, filename string, content []byte, mimeType string) (models.FormData, error) {
	field := findField(schema, fieldID)
	if field == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}

	if field.Type != models.FieldTypeFile {
		return nil, fmt.Errorf("%w: field %s is not a file field", ErrValueShape, fieldID)
	}

	stored, err := uploader.Upload(ctx, filename, content, mimeType)
	if err != nil {
		return nil, &UploadError{FieldID: fieldID, Err: err}
	}

	return Apply(schema, data, fieldID, models.StringValue(stored))
}

// FieldView is the display-only projection of one schema field against a
// data bag. A read-only rendering never mutates the bag.
type FieldView struct {
	Field    models.FormField `json:"field"`
	Answered bool             `json:"answered"`
	Display  string           `json:"display"`         // human-readable value or the Unanswered placeholder
	Chips    []string         `json:"chips,omitempty"` // checkbox answers, one chip per selection
	FileRef  string           `json:"file_ref,omitempty"`
}

// Project renders the whole schema read-only. Layout fields appear with
// their display text so the projection mirrors the authored form, but they
// are never marked answered.
func Project(schema []models.FormField, data models.FormData) []FieldView {
	views := make([]FieldView, 0, len(schema))

	for i := range schema {
		views = append(views, projectField(&schema[i], data))
	}

	return views
}

func projectField(field *models.FormField, data models.FormData) FieldView {
	view := FieldView{Field: *field}

	if !field.HasValue() {
		view.Display = field.Description

		return view
	}

	value, ok := data[field.ID]
	if !ok || value.IsEmpty() {
		view.Display = Unanswered

		return view
	}

	view.Answered = true

	switch {
	case field.IsMulti():
		view.Chips = value.Items
		view.Display = strings.Join(value.Items, ", ")
	case field.Type == models.FieldTypeFile:
		view.FileRef = value.Text
		view.Display = value.Text
	default:
		view.Display = value.Text
	}

	return view
}

func findField(schema []models.FormField, fieldID string) *models.FormField {
	for i := range schema {
		if schema[i].ID == fieldID {
			return &schema[i]
		}
	}

	return nil
}
