package infra

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(ttl time.Duration, max int) (*Cache[string], *clock) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache[string](ttl, max)
	c.now = clk.now
	return c, clk
}

func TestCacheGetSet(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}
	c.Set("a", "svg-a")
	if v, ok := c.Get("a"); !ok || v != "svg-a" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute, 0)
	c.Set("a", "svg-a")

	clk.advance(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry should still be live before TTL")
	}
	clk.advance(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should expire at TTL")
	}

	c.Cleanup()
	if c.Len() != 0 {
		t.Errorf("Len after Cleanup: got %d, want 0", c.Len())
	}
}

func TestCacheBoundEvictsOldest(t *testing.T) {
	c, clk := newTestCache(time.Minute, 2)

	c.Set("a", "1")
	clk.advance(time.Second)
	c.Set("b", "2")
	clk.advance(time.Second)
	c.Set("c", "3")

	if c.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should be present", k)
		}
	}
}

func TestCacheBoundSweepsExpiredFirst(t *testing.T) {
	c, clk := newTestCache(time.Minute, 2)

	c.Set("a", "1")
	clk.advance(30 * time.Second)
	c.Set("b", "2")
	clk.advance(31 * time.Second) // a expired, b live
	c.Set("c", "3")

	if _, ok := c.Get("b"); !ok {
		t.Error("live entry b should survive when an expired entry can be swept")
	}
	if c.Len() != 2 {
		t.Errorf("Len: got %d, want 2", c.Len())
	}
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(time.Minute, 2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "1b")

	if v, _ := c.Get("a"); v != "1b" {
		t.Errorf("Get(a): got %q", v)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("overwriting an existing key must not evict others")
	}
}
