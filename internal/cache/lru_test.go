package cache

import (
	"testing"
	"time"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("b: got %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size: got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry should not be returned")
	}
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("clean expired: got %d", removed)
	}
}

func TestDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("alice/2025-01", 1)
	c.Set("alice/2025-02", 2)
	c.Set("bob/2025-01", 3)

	if removed := c.DeletePrefix("alice/"); removed != 2 {
		t.Fatalf("delete prefix: got %d", removed)
	}
	if _, ok := c.Get("alice/2025-01"); ok {
		t.Fatalf("alice entries should be gone")
	}
	if _, ok := c.Get("bob/2025-01"); !ok {
		t.Fatalf("bob entry should survive")
	}
}
