package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowdesk/flowdesk/pkg/persistence"
	redis "github.com/redis/go-redis/v9"
)

// Persistence decorates another persistence layer with the Redis template
// cache. Orders are never cached; they change on every transition.
type Persistence struct {
	inner     persistence.Persistence
	client    redis.UniversalClient
	templates *TemplateRepository
}

// NewPersistence wraps inner, caching template reads through client.
func NewPersistence(inner persistence.Persistence, client redis.UniversalClient, logger *slog.Logger) *Persistence {
	return &Persistence{
		inner:     inner,
		client:    client,
		templates: NewTemplateRepository(inner.Templates(), client, logger),
	}
}

func (p *Persistence) Templates() persistence.TemplateRepository {
	return p.templates
}

func (p *Persistence) Orders() persistence.OrderRepository {
	return p.inner.Orders()
}

// HealthCheck requires both the underlying store and the cache to answer.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.inner.HealthCheck(ctx)
	if err != nil {
		return err
	}

	err = p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("cache is unreachable: %w", err)
	}

	return nil
}

func (p *Persistence) Close(ctx context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close cache client: %w", err)
	}

	return p.inner.Close(ctx)
}
