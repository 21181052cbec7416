// Package cache stores fetched datasets, layouts and rendered artifacts.
//
// # Backends
//
// Every backend implements [Cache], a byte-oriented store with per-entry
// TTL:
//
//   - [NullCache]: stores nothing; caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: an in-process LRU bounded by entry count
//   - [RedisCache]: a shared store for several server instances
//
// [Open] picks a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives keys for each pipeline stage. Keys hash the JSON
// encoding of the stage inputs so any option change produces a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(datasetHash, cache.LayoutKeyOpts{Params: p, Width: 1400})
//
// [NewScopedKeyer] prefixes every key, which keeps tenants or source
// backends apart in one shared store.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a key/value store with per-entry expiration. A zero TTL means the
// entry never expires. Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Dir           string
	Size          int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the backend named in cfg. An empty backend name selects the
// file cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("cache: file backend needs a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMemory:
		c, err := NewMemoryCache(cfg.Size)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
