// Package cache holds rendered artifacts in memory for the lifetime of one
// process.
//
// The HTTP server builds a project graph once and renders it on demand for
// many selections. Artifacts are keyed by the graph's serialized hash, the
// selection and the output format, so a rebuilt graph never serves stale
// bytes. Nothing is persisted across invocations.
package cache

import (
	"context"
	"time"
)

// Cache stores artifacts by key.
type Cache interface {
	// Get returns the stored data and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
