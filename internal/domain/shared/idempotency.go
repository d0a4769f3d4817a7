package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a handler has already seen,
// so redelivered events (outbox retries, bus restarts) are dropped instead
// of applied twice.
type IdempotencyStore interface {
	// MarkProcessed records the event ID with the given TTL. It returns
	// true when the ID was new and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls deduplication for a wrapped handler.
type IdempotencyConfig struct {
	// TTL bounds how long a processed ID is remembered. Once expired the
	// same ID would be handled again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig keeps IDs for a day.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
