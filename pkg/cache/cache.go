// Package cache stores rendered artifacts and settled layouts.
//
// Running a simulation to cooldown is the expensive part of rendering, so
// the render pipeline caches two things: the settled node positions for a
// (graph, scene) pair, and the encoded output for a (layout, format) pair.
//
// Backends:
//   - [FileCache]: one JSON file per entry, for CLI use.
//   - [RedisCache]: shared cache for the preview server.
//   - [NullCache]: disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
