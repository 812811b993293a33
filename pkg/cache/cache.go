// Package cache provides pluggable key-value caching for deptree.
//
// The primary consumer is the package-info collaborator, which caches
// summary and description lookups across invocations so that repeated
// spec generation does not re-query the package database every run.
//
// Three backends are provided:
//   - FileCache: entries stored as files under a directory (CLI default)
//   - RedisCache: entries stored in a Redis instance
//   - NullCache: no-op, used when caching is disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the backend-agnostic key-value store.
// Implementations must treat a missing key as (nil, false, nil), not an error.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// InfoKey builds the cache key for a package-info lookup. The kind
// distinguishes summary from description requests. Kind and package name
// are hashed together, NUL-separated so neither can collide into the
// other, which keeps arbitrary package names safe as backend identifiers.
func InfoKey(kind, pkg string) string {
	sum := sha256.Sum256([]byte(kind + "\x00" + pkg))
	return "pkginfo:" + hex.EncodeToString(sum[:])
}
