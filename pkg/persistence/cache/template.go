// Package cache provides a Redis read-through cache in front of a template
// repository. Templates are read on every engine operation and change only
// on explicit author saves, which makes them the one hot spot worth caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	redis "github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

// TemplateRepository decorates another repository with per-ID caching.
// Listings always hit the underlying store; only GetByID is cached, and a
// Save invalidates the entry before delegating so readers never see a
// version older than their own write.
type TemplateRepository struct {
	inner  persistence.TemplateRepository
	client redis.UniversalClient
	logger *slog.Logger
	ttl    time.Duration
}

// NewTemplateRepository wraps inner with a Redis cache.
func NewTemplateRepository(inner persistence.TemplateRepository, client redis.UniversalClient, logger *slog.Logger) *TemplateRepository {
	return &TemplateRepository{
		inner:  inner,
		client: client,
		logger: logger.With("module", "template-cache"),
		ttl:    defaultTTL,
	}
}

func cacheKey(id string) string {
	return "flowdesk:template:" + id
}

func (tr *TemplateRepository) List(ctx context.Context) ([]*models.ProcessTemplate, error) {
	return tr.inner.List(ctx)
}

func (tr *TemplateRepository) ListByModule(ctx context.Context, module models.TargetModule) ([]*models.ProcessTemplate, error) {
	return tr.inner.ListByModule(ctx, module)
}

// GetByID serves from cache when possible. Cache failures degrade to the
// underlying store; they are logged, never surfaced.
func (tr *TemplateRepository) GetByID(ctx context.Context, id string) (*models.ProcessTemplate, error) {
	cached, err := tr.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var template models.ProcessTemplate

		if err := json.Unmarshal(cached, &template); err == nil {
			return &template, nil
		}

		tr.logger.WarnContext(ctx, "discarding undecodable cache entry", "template_id", id)
	} else if !errors.Is(err, redis.Nil) {
		tr.logger.WarnContext(ctx, "cache read failed, falling back to store", "template_id", id, "error", err)
	}

	template, err := tr.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tr.fill(ctx, template)

	return template, nil
}

// Save invalidates the cached entry, delegates, then refills with the
// stored result.
func (tr *TemplateRepository) Save(ctx context.Context, template *models.ProcessTemplate) error {
	err := tr.client.Del(ctx, cacheKey(template.ID)).Err()
	if err != nil {
		tr.logger.WarnContext(ctx, "cache invalidation failed", "template_id", template.ID, "error", err)
	}

	err = tr.inner.Save(ctx, template)
	if err != nil {
		return fmt.Errorf("failed to save template through cache: %w", err)
	}

	tr.fill(ctx, template)

	return nil
}

func (tr *TemplateRepository) fill(ctx context.Context, template *models.ProcessTemplate) {
	data, err := json.Marshal(template)
	if err != nil {
		tr.logger.WarnContext(ctx, "failed to marshal template for cache", "template_id", template.ID, "error", err)

		return
	}

	err = tr.client.Set(ctx, cacheKey(template.ID), data, tr.ttl).Err()
	if err != nil {
		tr.logger.WarnContext(ctx, "cache write failed", "template_id", template.ID, "error", err)
	}
}
