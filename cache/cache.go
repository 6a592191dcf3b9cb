package cache

import (
	"context"
	"time"
)

// Cache is a small read-through cache for the inventory alert views
// (low-stock, expiring-soon). Values are pre-marshalled JSON payloads;
// staleness is bounded by the TTL, there is no invalidation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Noop satisfies Cache when no Redis is configured; every lookup misses.
type Noop struct{}

func (Noop) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}
