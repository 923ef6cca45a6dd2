package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered stream
// messages are dropped instead of applied twice.
type IdempotencyStore interface {
	// MarkProcessed records the event ID with a TTL. It reports false
	// when the ID was already recorded, meaning a duplicate delivery.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID is currently recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers.
type IdempotencyConfig struct {
	// TTL bounds how long an event ID is remembered. Past it, a
	// redelivery of the same event would be processed again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for a day.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
