package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "claimcheck:v1:"

// Key builds a cache key from its parts
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New creates the cache backend selected in the configuration
func New(cfg model.CacheConfig) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		dir, err := cacheDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return NewDiskCache(dir, cfg.TTL), nil
	case "layered":
		dir, err := cacheDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return NewLayeredCache(cfg.TTL, dir, cfg.TTL), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache requires cache.redis_addr")
		}
		return NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, disk, layered, redis)", cfg.Backend)
	}
}
