package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/profilemap/internal/model"
)

// Cache stores endpoint response bodies
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a key from the request URL and any extra discriminators,
// such as a hash of the cookie header the request was made with
func CacheKey(rawURL string, extra ...string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	for _, e := range extra {
		h.Write([]byte{0})
		h.Write([]byte(e))
	}
	return "profilemap:v1:" + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg. It returns nil when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	memory := NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	if !cfg.Disk {
		return memory
	}
	return NewLayeredCache(memory, NewDiskCache(cfg.Dir, cfg.DiskTTL))
}
