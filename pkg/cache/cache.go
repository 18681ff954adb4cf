// Package cache stores rendered artifacts keyed by a hash of their inputs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry per key under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several `emojiqr serve` replicas
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer] so that callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(renderHash, cache.ArtifactKeyOpts{Format: "png", Width: 1024})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLMatrix bounds how long an encoded module matrix is kept.
	TTLMatrix = 7 * 24 * time.Hour

	// TTLArtifact bounds how long a rendered document is kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
