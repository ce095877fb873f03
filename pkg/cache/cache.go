// Package cache provides the byte-level cache behind the transform pipeline:
// computed payloads and composited rasters keyed by their full input hash.
// Backends range from in-process no-op (tests) to files (CLI) to Redis
// (service deployments).
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact class. Payloads are cheap to recompute
// and invalidate on any input change, so they expire quickly; composites
// and fetched images are expensive and content-addressed, so they live long.
const (
	TTLTransform = 1 * time.Hour
	TTLComposite = 24 * time.Hour
	TTLImage     = 7 * 24 * time.Hour
)

// Cache is a byte-level key-value store with TTL expiry.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of zero means "no expiry".
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
