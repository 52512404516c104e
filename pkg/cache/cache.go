// Package cache provides persistent byte caches shared across sessions.
//
// Scanning a base image and decoding garment headers are pure functions of
// the asset bytes, so their results can outlive a single session. The
// in-memory session memo in package assets is the first tier; a [Cache] is
// the optional second tier consulted before any image is fetched.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// space.
package cache

import (
	"context"
	"time"
)

// Default TTLs. Asset urls are content-stable, so entries live long.
const (
	TTLLandmark = 30 * 24 * time.Hour
	TTLSize     = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the stored bytes and true on a hit, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
