// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/persistence/cache"
	"github.com/flowdesk/flowdesk/pkg/persistence/file"
	"github.com/flowdesk/flowdesk/pkg/persistence/postgresql"
	redis "github.com/redis/go-redis/v9"
)

// NewPersistence selects the storage backend from the database URL scheme:
// postgres URLs get the SQL store, anything else is treated as a directory
// for the file store. A non-empty redisURL wraps the result with the
// template cache.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL, redisURL string) persistence.Persistence {
	var (
		p   persistence.Persistence
		err error
	)

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		p, err = postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(err)
		}
	default:
		p = file.NewPersistence(strings.TrimPrefix(databaseURL, "file://"))
	}

	if redisURL == "" {
		return p
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(err)
	}

	return cache.NewPersistence(p, redis.NewClient(opts), logger)
}
