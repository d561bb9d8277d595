// Package file provides file-based JSON persistence, one record per file.
// Suited to development and small single-node installs.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/flowdesk/flowdesk/pkg/persistence"
)

// Persistence implements the persistence layer on the local filesystem.
type Persistence struct {
	root      string
	templates *TemplateRepository
	orders    *OrderRepository
}

// NewPersistence creates a file persistence rooted at root.
func NewPersistence(root string) *Persistence {
	return &Persistence{
		root:      root,
		templates: NewTemplateRepository(root),
		orders:    NewOrderRepository(root),
	}
}

func (p *Persistence) Templates() persistence.TemplateRepository {
	return p.templates
}

func (p *Persistence) Orders() persistence.OrderRepository {
	return p.orders
}

// HealthCheck verifies the root directory is usable.
func (p *Persistence) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(p.root, 0750)
	if err != nil {
		return fmt.Errorf("persistence root is not writable: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
