package services

import (
	"strings"
	"testing"
	"time"

	"personalization_api/models"
)

func TestCacheKeyOrderIndependent(t *testing.T) {
	c := NewRecommendationCache(0)

	a := c.Key(attrs(map[string]string{"industry": "x", "role": "y"}), 10, 1)
	b := c.Key(attrs(map[string]string{"role": "y", "industry": "x"}), 10, 1)
	if a != b {
		t.Fatalf("key must be order-independent: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "rec_") {
		t.Fatalf("expected rec_ prefix, got %s", a)
	}
}

func TestCacheKeyVariesWithRequest(t *testing.T) {
	c := NewRecommendationCache(0)
	base := c.Key(attrs(map[string]string{"industry": "x"}), 10, 1)

	if c.Key(attrs(map[string]string{"industry": "z"}), 10, 1) == base {
		t.Fatal("different attributes must produce different keys")
	}
	if c.Key(attrs(map[string]string{"industry": "x"}), 10, 2) == base {
		t.Fatal("different page must produce a different key")
	}
	if c.Key(attrs(map[string]string{"industry": "x"}), 20, 1) == base {
		t.Fatal("different per_page must produce a different key")
	}
}

func TestCacheRoundTripAndTTL(t *testing.T) {
	c := NewRecommendationCache(300 * time.Second)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	resp := &models.RecommendationResponse{Total: 7, Page: 1, PerPage: 10}
	key := c.Key(attrs(map[string]string{"industry": "tech"}), 10, 1)

	c.Set(key, resp)
	got, ok := c.Get(key)
	if !ok || got.Total != 7 {
		t.Fatalf("expected round-trip hit, got ok=%v", ok)
	}

	// 模拟时钟推进过TTL
	now = now.Add(301 * time.Second)
	if _, ok := c.Get(key); ok {
		t.Fatal("expired entry must be absent, never stale")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	c := NewRecommendationCache(time.Minute)
	c.Set("rec_a", &models.RecommendationResponse{})
	c.Set("rec_b", &models.RecommendationResponse{})

	c.InvalidateAll()
	if _, ok := c.Get("rec_a"); ok {
		t.Fatal("expected flush to drop every entry")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCacheSweepExpired(t *testing.T) {
	c := NewRecommendationCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("rec_old", &models.RecommendationResponse{})
	now = now.Add(2 * time.Minute)
	c.Set("rec_new", &models.RecommendationResponse{})

	if removed := c.SweepExpired(); removed != 1 {
		t.Fatalf("expected 1 swept entry, got %d", removed)
	}
	if _, ok := c.Get("rec_new"); !ok {
		t.Fatal("live entry must survive the sweep")
	}
}
