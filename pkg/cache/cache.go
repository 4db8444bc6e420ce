// Package cache stores flattened results and rendered artifacts so repeated
// requests for an unchanged document skip flattening, layout and rendering.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: a Redis server, shared between API server replicas
//   - [NullCache]: stores nothing
//
// Keys are built by a [Keyer] from a content hash of the input plus every
// option that affects the output, so changing the document or the layout
// direction never returns a stale entry.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// Default entry lifetimes.
const (
	TTLResult   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get returns hit=false with a nil error on a miss. A ttl of zero means no
// expiry. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a Cache implementation.
type Backend string

// Backends.
const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

// ParseBackend validates a backend name. The empty string selects the file
// backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendRedis, BackendNone:
		return b, nil
	}
	return "", ErrUnknownBackend
}

// Config selects and configures a backend for [Open].
type Config struct {
	Backend   Backend
	Dir       string // file backend
	RedisAddr string // redis backend
	RedisDB   int
}

// Open creates the cache described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendFile, "":
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, ErrUnknownBackend
}

// NullCache stores nothing; every Get is a miss. It stands in when caching
// is disabled.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
