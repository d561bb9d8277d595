package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/flowdesk/flowdesk/pkg/forms"
	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/workflow"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Template is the authoring service for process templates.
type Template struct {
	persistence persistence.Persistence
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTemplate creates a new template service.
func NewTemplate(p persistence.Persistence, logger *slog.Logger) *Template {
	return &Template{
		persistence: p,
		validator:   validator.New(),
		logger:      logger.With("module", "template-service"),
	}
}

// List retrieves every template.
func (t *Template) List(ctx context.Context) ([]*models.ProcessTemplate, error) {
	return t.persistence.Templates().List(ctx)
}

// ListByModule retrieves the templates surfaced by one product module.
func (t *Template) ListByModule(ctx context.Context, module models.TargetModule) ([]*models.ProcessTemplate, error) {
	return t.persistence.Templates().ListByModule(ctx, module)
}

// FetchByID retrieves a template by its ID.
func (t *Template) FetchByID(ctx context.Context, id string) (*models.ProcessTemplate, error) {
	return t.persistence.Templates().GetByID(ctx, id)
}

// ValidationReport is the advisory authoring report for one template.
// Authoring tolerates transient invalid states; the engine only refuses at
// the moment a transition needs to resolve a broken edge.
type ValidationReport struct {
	GraphIssues  []workflow.GraphIssue `json:"graph_issues"`
	SchemaIssues []forms.SchemaIssue   `json:"schema_issues"`
}

// Clean reports whether the template carries no findings at all.
func (r *ValidationReport) Clean() bool {
	return len(r.GraphIssues) == 0 && len(r.SchemaIssues) == 0
}

// Validate produces the advisory report for a stored template.
func (t *Template) Validate(ctx context.Context, id string) (*ValidationReport, error) {
	template, err := t.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return ReportFor(template), nil
}

// ReportFor validates an in-memory template.
func ReportFor(template *models.ProcessTemplate) *ValidationReport {
	return &ValidationReport{
		GraphIssues:  workflow.ValidateGraph(template.Workflow),
		SchemaIssues: forms.ValidateSchema(template.FormSchema),
	}
}

// Save upserts a template. Structural problems are reported back alongside
// the save, never blocking it: authors may persist half-edited drafts.
func (t *Template) Save(ctx context.Context, template *models.ProcessTemplate) (*ValidationReport, error) {
	err := t.validator.Struct(template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	if template.ID == "" {
		template.ID = uuid.New().String()
	}

	err = t.persistence.Templates().Save(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	report := ReportFor(template)
	if !report.Clean() {
		t.logger.WarnContext(ctx, "saved template has authoring issues",
			"template_id", template.ID,
			"graph_issues", len(report.GraphIssues),
			"schema_issues", len(report.SchemaIssues))
	}

	return report, nil
}

// Import decodes and saves a template document, first rejecting anything
// that does not even match the document schema.
func (t *Template) Import(ctx context.Context, document []byte) (*models.ProcessTemplate, *ValidationReport, error) {
	err := ValidateTemplateDocument(document)
	if err != nil {
		return nil, nil, err
	}

	var template models.ProcessTemplate

	err = json.Unmarshal(document, &template)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidTemplateDocument, err)
	}

	report, err := t.Save(ctx, &template)
	if err != nil {
		return nil, nil, err
	}

	return &template, report, nil
}

// Export serializes a stored template as an importable document.
func (t *Template) Export(ctx context.Context, id string) ([]byte, error) {
	template, err := t.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	document, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export template %s: %w", id, err)
	}

	return document, nil
}
