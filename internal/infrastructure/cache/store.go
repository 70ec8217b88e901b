package cache

import (
	"context"
	"time"
)

// Store is the cache capability the pipeline needs: media-search responses
// keyed by query, and live progress snapshots keyed by job id. Redis backs it
// in deployments; the in-memory store serves development and tests.
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}
