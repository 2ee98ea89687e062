package generation

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheKey_Distinguishes(t *testing.T) {
	base := cacheKey(OperationReport, "de", "text")
	if cacheKey(OperationReport, "de", "text") != base {
		t.Error("identical inputs must produce identical keys")
	}
	if cacheKey(OperationSummary, "de", "text") == base {
		t.Error("operation must affect the key")
	}
	if cacheKey(OperationReport, "en", "text") == base {
		t.Error("language must affect the key")
	}
	if cacheKey(OperationReport, "de", "other") == base {
		t.Error("text must affect the key")
	}
}

func TestCache_HitWithinTTL(t *testing.T) {
	c := newResultCache(time.Minute, 10)
	c.Set("k", Result{Impression: "unauffällig"})

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Impression != "unauffällig" {
		t.Errorf("unexpected payload: %q", got.Impression)
	}
}

func TestCache_LogicalExpiryWithoutSweep(t *testing.T) {
	c := newResultCache(time.Minute, 10)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", Result{Impression: "x"})

	// Entry past its TTL is unreachable even though no sweep has run.
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry must not be returned before the sweep removes it")
	}
	if c.Len() != 1 {
		t.Error("entry should still be physically present before the sweep")
	}

	c.sweep()
	if c.Len() != 0 {
		t.Error("sweep should remove the expired entry")
	}
}

func TestCache_EvictsOldestAtBound(t *testing.T) {
	c := newResultCache(time.Hour, 3)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), Result{})
	}
	c.Set("k3", Result{})

	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, key := range []string{"k1", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %s should survive eviction", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("cache must not exceed its bound, has %d entries", c.Len())
	}
}

func TestCache_OverwriteMovesEntryToTail(t *testing.T) {
	c := newResultCache(time.Hour, 2)
	c.Set("a", Result{Impression: "a1"})
	c.Set("b", Result{})
	c.Set("a", Result{Impression: "a2"})

	// "b" is now the oldest entry and must be the one evicted.
	c.Set("c", Result{})

	if _, ok := c.Get("b"); ok {
		t.Error("oldest entry b should have been evicted")
	}
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("refreshed entry a should survive eviction")
	}
	if got.Impression != "a2" {
		t.Errorf("refreshed entry should hold the new payload, got %q", got.Impression)
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry c should be present")
	}
}

func TestCache_OverwriteDoesNotGrow(t *testing.T) {
	c := newResultCache(time.Hour, 2)
	c.Set("k", Result{Impression: "a"})
	c.Set("k", Result{Impression: "b"})
	if c.Len() != 1 {
		t.Errorf("overwrite must not grow the cache, has %d entries", c.Len())
	}
	got, _ := c.Get("k")
	if got.Impression != "b" {
		t.Errorf("overwrite should win, got %q", got.Impression)
	}
}
