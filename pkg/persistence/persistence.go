// Package persistence provides the data storage abstraction for process
// templates and order instances.
package persistence

import (
	"context"

	"github.com/flowdesk/flowdesk/pkg/models"
)

// Persistence bundles the repositories behind one connection lifecycle.
type Persistence interface {
	Templates() TemplateRepository
	Orders() OrderRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// TemplateRepository stores authored process templates. Save is an upsert
// keyed by ID; the store owns timestamps and the version counter. Templates
// are never hard-deleted.
type TemplateRepository interface {
	List(ctx context.Context) ([]*models.ProcessTemplate, error)
	ListByModule(ctx context.Context, module models.TargetModule) ([]*models.ProcessTemplate, error)
	GetByID(ctx context.Context, id string) (*models.ProcessTemplate, error)
	Save(ctx context.Context, template *models.ProcessTemplate) error
}

// OrderFilter narrows an order listing. Zero values mean "no constraint".
type OrderFilter struct {
	TargetModule models.TargetModule
	Status       string
	AssignedTo   string
	TemplateID   string
}

// OrderUpdate carries a partial whole-field update: a nil pointer leaves the
// stored value untouched, a non-nil pointer replaces it wholesale. Object
// fields (DynamicData) are serialized whole, never deep-merged.
type OrderUpdate struct {
	CurrentNodeID *string
	Status        *string
	DynamicData   models.FormData
	AssignedTo    *string
}

// OrderRepository stores order instances. Update enforces optimistic
// concurrency: the caller passes the version it read, and the repository
// answers ErrConcurrentModification when the stored version moved on.
type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter) ([]*models.OrderInstance, error)
	GetByID(ctx context.Context, id string) (*models.OrderInstance, error)
	Create(ctx context.Context, order *models.OrderInstance) error
	Update(ctx context.Context, id string, expectedVersion int, update OrderUpdate) (*models.OrderInstance, error)
}
