// Package cache stores rendered page artifacts.
//
// Rendering a page goes through an external service, so the pipeline keys
// each render by a hash of the document and the render options and keeps
// the HTML it got back. Conversions (expand, parse, validate) are pure and
// fast and are never cached.
//
// # Backends
//
//   - [NullCache]: stores nothing; used when caching is disabled.
//   - [FileCache]: JSON entry files under a directory, for the CLI.
//   - [RedisCache]: a shared Redis instance, for the HTTP server.
//   - [MongoCache]: a MongoDB collection with a TTL index.
//
// [Open] builds a backend from [Options], which the CLI fills from the
// [cache] section of the configuration file.
//
// # Keys
//
// A [Keyer] turns a document hash and options into a key. [ScopedKeyer]
// prefixes keys so several tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A TTL of 0 means the entry
// never expires. Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
