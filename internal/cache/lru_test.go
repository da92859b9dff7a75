package cache

import (
	"testing"
	"time"
)

func TestLRUBasics(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("got %d, %v", v, ok)
	}

	// "b" is now least recently used and gets evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected eviction of least recently used")
	}
	if c.Size() != 2 {
		t.Fatalf("size: got %d", c.Size())
	}
}

func TestLRUTTL(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expiry")
	}
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned: got %d", n)
	}
}

func TestLRUDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("u1:income:summary", 1)
	c.Set("u1:expense:summary", 2)
	c.Set("u2:income:summary", 3)

	if n := c.DeletePrefix("u1:"); n != 2 {
		t.Fatalf("deleted: got %d", n)
	}
	if _, ok := c.Get("u2:income:summary"); !ok {
		t.Fatal("other user's entries must survive")
	}
}
