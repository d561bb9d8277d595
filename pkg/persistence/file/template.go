package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
)

// TemplateRepository stores process templates as one JSON file per template.
type TemplateRepository struct {
	root string
	mu   sync.Mutex
}

// NewTemplateRepository creates a new template repository under root.
func NewTemplateRepository(root string) *TemplateRepository {
	return &TemplateRepository{root: root}
}

func (tr *TemplateRepository) dir() string {
	return path.Join(tr.root, "templates")
}

// List returns every stored template, newest first.
func (tr *TemplateRepository) List(ctx context.Context) ([]*models.ProcessTemplate, error) {
	root := os.DirFS(tr.dir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}

	templates := make([]*models.ProcessTemplate, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := strings.TrimSuffix(name, ".json")

		template, err := tr.GetByID(ctx, id)
		if err != nil {
			if persistence.IsTemplateNotFound(err) {
				continue
			}

			return nil, err
		}

		templates = append(templates, template)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})

	return templates, nil
}

// ListByModule returns the templates surfaced by one product module.
func (tr *TemplateRepository) ListByModule(ctx context.Context, module models.TargetModule) ([]*models.ProcessTemplate, error) {
	all, err := tr.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.ProcessTemplate, 0, len(all))

	for _, template := range all {
		if template.TargetModule == module {
			filtered = append(filtered, template)
		}
	}

	return filtered, nil
}

// GetByID retrieves a template by its ID.
func (tr *TemplateRepository) GetByID(_ context.Context, id string) (*models.ProcessTemplate, error) {
	filePath := filepath.Clean(path.Join(tr.dir(), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrTemplateNotFound
		}

		return nil, fmt.Errorf("failed to read template %s: %w", id, err)
	}

	var template models.ProcessTemplate

	err = json.Unmarshal(body, &template)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal template %s: %w", id, err)
	}

	return &template, nil
}

// Save upserts a template. The store owns CreatedAt/UpdatedAt and bumps the
// version counter on every write.
func (tr *TemplateRepository) Save(ctx context.Context, template *models.ProcessTemplate) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	err := os.MkdirAll(tr.dir(), 0750)
	if err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}

	now := time.Now().UTC()

	existing, err := tr.GetByID(ctx, template.ID)
	if err != nil && !persistence.IsTemplateNotFound(err) {
		return err
	}

	if existing != nil {
		template.CreatedAt = existing.CreatedAt
		template.Version = existing.Version + 1
	} else {
		template.CreatedAt = now
		template.Version = 1
	}

	template.UpdatedAt = now

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template %s: %w", template.ID, err)
	}

	filePath := path.Join(tr.dir(), template.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}
