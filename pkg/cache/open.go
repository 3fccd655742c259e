package cache

import (
	"context"
	"fmt"
)

// Backend names a cache implementation.
type Backend string

// Supported backends.
const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendMongo Backend = "mongo"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendNone, BackendFile, BackendRedis, BackendMongo}

// Options selects and configures a backend.
type Options struct {
	Backend       Backend
	Dir           string // file
	RedisAddr     string // redis
	RedisPrefix   string // redis
	MongoURI      string // mongo
	MongoDatabase string // mongo
}

// Open builds the backend named by opts. An empty backend means none.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisAddr, opts.RedisPrefix)
	case BackendMongo:
		db := opts.MongoDatabase
		if db == "" {
			db = "pagecraft"
		}
		return NewMongoCache(ctx, opts.MongoURI, db)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, opts.Backend)
}
