package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/profilemap/internal/model"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("https://example.com/api/me", "cookie-a")
	b := CacheKey("https://example.com/api/me", "cookie-b")
	c := CacheKey("https://example.com/api/me", "cookie-a")

	if a == b {
		t.Error("Expected different keys for different cookie hashes")
	}
	if a != c {
		t.Error("Expected stable keys")
	}
	if len(a) != len("profilemap:v1:")+64 {
		t.Errorf("Unexpected key length: %s", a)
	}
	if CacheKey("ab", "c") == CacheKey("a", "bc") {
		t.Error("Expected separator between key parts")
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	body := []byte(`{"a":1}`)
	if err := c.Set("k", body, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	body[0] = 'X'

	got, ok := c.Get("k")
	if !ok || string(got) != `{"a":1}` {
		t.Fatalf("Expected stored copy, got %q", got)
	}
	got[0] = 'Y'
	again, _ := c.Get("k")
	if string(again) != `{"a":1}` {
		t.Errorf("Expected Get to return a copy, got %q", again)
	}

	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
	_ = c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("Expected empty cache after Clear")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("short", []byte("x"), time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := CacheKey("https://example.com/api/user")
	if err := c.Set(key, []byte("body"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(key)
	if !ok || string(got) != "body" {
		t.Fatalf("Expected body, got %q (found=%v)", got, ok)
	}

	// Unrelated files survive Clear
	other := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("Expected entry removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("Expected unrelated file kept: %v", err)
	}

	if err := c.Delete("missing"); err != nil {
		t.Errorf("Expected no error deleting missing entry, got %v", err)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	_ = c.Set("k", []byte("v"), time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected expired entry")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	memory := NewMemoryCache(time.Minute, time.Minute)
	disk := NewDiskCache(t.TempDir(), time.Hour)
	_ = disk.Set("k", []byte("from-disk"), 0)

	c := NewLayeredCache(memory, disk)
	got, ok := c.Get("k")
	if !ok || string(got) != "from-disk" {
		t.Fatalf("Expected disk hit, got %q", got)
	}
	if _, ok := memory.Get("k"); !ok {
		t.Error("Expected disk hit promoted to memory")
	}
}

func TestNew(t *testing.T) {
	if New(model.CacheConfig{Enabled: false}) != nil {
		t.Error("Expected nil cache when disabled")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("Expected memory cache")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Disk: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("Expected layered cache")
	}
}
