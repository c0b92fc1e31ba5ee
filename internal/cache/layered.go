package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mlevchuk/veracity/internal/model"
)

// LayeredCache fronts the disk cache with a memory layer. Reads promote
// disk hits to memory; writes land in both layers.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory+disk cache.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// FromConfig builds the cache the configuration asks for. Disabled caching
// yields a Nop so callers never branch on the setting.
func FromConfig(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		dir = filepath.Join(home, ".veracity", "cache")
	}
	return NewLayeredCache(cfg.MemoryTTL, dir, cfg.DiskTTL)
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}
	if val, found := c.disk.Get(key); found {
		c.memory.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	c.memory.Delete(key)
	return c.disk.Delete(key)
}

func (c *LayeredCache) Clear() error {
	c.memory.Clear()
	return c.disk.Clear()
}
