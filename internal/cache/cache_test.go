package cache

import (
	"testing"
	"time"

	"github.com/mlevchuk/veracity/internal/model"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("serpapi", "query one", "10")
	b := Key("serpapi", "query one", "10")
	if a != b {
		t.Error("Expected identical keys for identical requests")
	}
	if a == Key("customsearch", "query one", "10") {
		t.Error("Expected engine to separate keys")
	}
	if a == Key("serpapi", "query two", "10") {
		t.Error("Expected query to separate keys")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if _, found := c.Get("missing"); found {
		t.Error("Expected miss on empty cache")
	}
	c.Set("k", []byte("value"), time.Minute)
	val, found := c.Get("k")
	if !found || string(val) != "value" {
		t.Errorf("Expected hit with stored value, got %q found=%v", val, found)
	}
	c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Errorf("Expected hit with stored value, got %q found=%v", val, found)
	}

	if err := c.Set("stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("stale"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)
	c.disk.Set("k", []byte("v"), time.Hour)

	if _, found := c.memory.Get("k"); found {
		t.Fatal("Precondition failed: memory should start empty")
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Expected layered hit from disk, got %q found=%v", val, found)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("Expected disk hit to be promoted to memory")
	}
}

func TestFromConfig_DisabledYieldsNop(t *testing.T) {
	c := FromConfig(model.CacheConfig{Enabled: false})
	if _, ok := c.(Nop); !ok {
		t.Errorf("Expected Nop cache, got %T", c)
	}
	c.Set("k", []byte("v"), time.Minute)
	if _, found := c.Get("k"); found {
		t.Error("Expected Nop cache to always miss")
	}
}
