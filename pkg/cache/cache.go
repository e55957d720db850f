// Package cache stores rendered diagrams so repeated exports of the same input
// skip the layout run.
//
// Entries are opaque byte slices keyed by a hash of the input JSON and the render
// options (see [Keyer]). Two implementations are provided:
//   - [FileCache]: entries as files under a directory, for the CLI
//   - [NullCache]: stores nothing, used when caching is disabled
//
// [Fetch] wraps the get-or-compute pattern and reports hits and misses to the
// observability cache hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/cfgview/pkg/observability"
)

// Cache is a byte-slice store with optional expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// Fetch returns the cached entry for key, or computes it with fn and stores the
// result for ttl. keyType labels the entry in cache hooks. Cache read and write
// failures degrade to computing; errors from fn are returned as is.
func Fetch(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := fn()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
