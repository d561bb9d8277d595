package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
)

// TemplateRepository handles process template database operations.
type TemplateRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *sql.DB, logger *slog.Logger) *TemplateRepository {
	return &TemplateRepository{db: db, logger: logger}
}

const templateColumns = `
	id
  , name
  , description
  , target_module
  , form_schema
  , workflow
  , version
  , created_at
  , updated_at
`

// List returns every stored template, newest first.
func (tr *TemplateRepository) List(ctx context.Context) ([]*models.ProcessTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM process_templates ORDER BY created_at DESC`

	return tr.queryTemplates(ctx, query)
}

// ListByModule returns the templates surfaced by one product module.
func (tr *TemplateRepository) ListByModule(ctx context.Context, module models.TargetModule) ([]*models.ProcessTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM process_templates WHERE target_module = $1 ORDER BY created_at DESC`

	return tr.queryTemplates(ctx, query, string(module))
}

func (tr *TemplateRepository) queryTemplates(ctx context.Context, query string, args ...any) ([]*models.ProcessTemplate, error) {
	rows, err := tr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			tr.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	templates := make([]*models.ProcessTemplate, 0)

	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}

		templates = append(templates, template)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// GetByID retrieves a template by its ID.
func (tr *TemplateRepository) GetByID(ctx context.Context, id string) (*models.ProcessTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM process_templates WHERE id = $1`

	row := tr.db.QueryRowContext(ctx, query, id)

	template, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrTemplateNotFound
		}

		return nil, fmt.Errorf("failed to fetch template %s: %w", id, err)
	}

	return template, nil
}

// Save upserts a template, bumping the version counter on conflict.
func (tr *TemplateRepository) Save(ctx context.Context, template *models.ProcessTemplate) error {
	formSchema, err := json.Marshal(template.FormSchema)
	if err != nil {
		return fmt.Errorf("failed to marshal form schema for template %s: %w", template.ID, err)
	}

	workflow, err := json.Marshal(template.Workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow for template %s: %w", template.ID, err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO process_templates (id, name, description, target_module, form_schema, workflow, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			target_module = EXCLUDED.target_module,
			form_schema = EXCLUDED.form_schema,
			workflow = EXCLUDED.workflow,
			version = process_templates.version + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING version, created_at
	`

	err = tr.db.QueryRowContext(ctx, query,
		template.ID,
		template.Name,
		template.Description,
		string(template.TargetModule),
		formSchema,
		workflow,
		now,
	).Scan(&template.Version, &template.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", template.ID, err)
	}

	template.UpdatedAt = now

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.ProcessTemplate, error) {
	var (
		template         models.ProcessTemplate
		formSchemaJSON   []byte
		workflowJSON     []byte
		targetModuleText string
	)

	err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Description,
		&targetModuleText,
		&formSchemaJSON,
		&workflowJSON,
		&template.Version,
		&template.CreatedAt,
		&template.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	template.TargetModule = models.TargetModule(targetModuleText)

	err = json.Unmarshal(formSchemaJSON, &template.FormSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal form schema: %w", err)
	}

	err = json.Unmarshal(workflowJSON, &template.Workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow: %w", err)
	}

	return &template, nil
}
