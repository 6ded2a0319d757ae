package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("tavily", "Current verification of: 1. X", "3")
	b := Key("tavily", "Current verification of: 1. X", "3")
	c := Key("tavily", "Current verification of: 1. X", "5")

	if a != b {
		t.Error("Expected identical parts to produce identical keys")
	}
	if a == c {
		t.Error("Expected different parts to produce different keys")
	}
	if !strings.HasPrefix(a, "claimcheck:v1:") {
		t.Errorf("Expected namespaced key, got %s", a)
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Expected part boundaries to matter")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != "v" {
		t.Errorf("Expected hit with v, got %q %v", val, ok)
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("q")
	if err := c.Set(key, []byte(`[{"content":"x"}]`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(key)
	if !ok || string(val) != `[{"content":"x"}]` {
		t.Errorf("Unexpected value %q %v", val, ok)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".cache" {
		t.Errorf("Expected a single .cache file, got %v", entries)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Expected deleting a missing key to succeed, got %v", err)
	}
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	_ = c.Set("old", []byte("v"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("old"); ok {
		t.Error("Expected expired entry to miss")
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.cache"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("Expected corrupt entry to miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.cache")); !os.IsNotExist(err) {
		t.Error("Expected corrupt entry to be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Hour, dir, time.Hour)

	// Seed only the disk layer
	if err := layered.disk.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	if _, ok := layered.memory.Get("k"); ok {
		t.Fatal("Expected memory layer to start empty")
	}

	val, ok := layered.Get("k")
	if !ok || string(val) != "v" {
		t.Fatalf("Expected disk hit, got %q %v", val, ok)
	}

	if _, ok := layered.memory.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted into memory")
	}

	if err := layered.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := layered.Get("k"); ok {
		t.Error("Expected miss after clear")
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     model.CacheConfig
		want    string
		wantErr bool
	}{
		{"default", model.CacheConfig{}, "*cache.MemoryCache", false},
		{"memory", model.CacheConfig{Backend: "memory", TTL: time.Hour}, "*cache.MemoryCache", false},
		{"disk", model.CacheConfig{Backend: "disk", Dir: dir}, "*cache.DiskCache", false},
		{"layered", model.CacheConfig{Backend: "Layered", Dir: dir}, "*cache.LayeredCache", false},
		{"redis without addr", model.CacheConfig{Backend: "redis"}, "", true},
		{"unknown", model.CacheConfig{Backend: "memcached"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := typeName(c); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("CLAIMCHECK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLAIMCHECK_TEST_REDIS_ADDR not set")
	}

	c, err := NewRedisCache(addr, 0, time.Minute)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = c.Close() }()

	key := Key("redis-test", time.Now().String())
	if err := c.Set(key, []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, ok := c.Get(key); !ok || string(val) != "v" {
		t.Errorf("Unexpected value %q %v", val, ok)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("Expected miss after clear")
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *MemoryCache:
		return "*cache.MemoryCache"
	case *DiskCache:
		return "*cache.DiskCache"
	case *LayeredCache:
		return "*cache.LayeredCache"
	case *RedisCache:
		return "*cache.RedisCache"
	default:
		return "unknown"
	}
}
