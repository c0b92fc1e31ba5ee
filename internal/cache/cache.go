// Package cache provides the layered response cache used in front of the
// external search APIs. Keys are derived from the full request fingerprint
// so distinct engines and parameter sets never collide.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the storage contract shared by all layers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a versioned cache key from an engine name and the request
// parts that define the response (query, page size, filters).
func Key(engine string, parts ...string) string {
	h := sha256.Sum256([]byte(engine + "\x00" + strings.Join(parts, "\x00")))
	return "veracity:v1:" + hex.EncodeToString(h[:])
}

// Nop is the disabled cache: every lookup misses, every write succeeds.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
