// Package storage selects the event store backend. Events are the loop's
// only persisted artifact; everything else is in-memory state.
package storage

import (
	"context"
	"fmt"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/config"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/storage/postgres"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/storage/sqlite"
)

// Store is an event store with a lifecycle and age-based cleanup.
type Store interface {
	events.EventStore

	// CleanupEventsByAge deletes events older than retentionDays.
	// Returns the number of events deleted.
	CleanupEventsByAge(ctx context.Context, retentionDays int) (int, error)

	// Close releases the underlying database resources.
	Close() error
}

// Open creates the backend named by cfg. The "none" backend returns nil;
// callers treat a nil store as events-to-log-only.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return sqlite.New(cfg.Path)
	case "postgres":
		return postgres.New(ctx, cfg.DSN)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
