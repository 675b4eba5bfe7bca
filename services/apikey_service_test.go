package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"personalization_api/models"
)

var hexKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestAPIKeyVerify(t *testing.T) {
	svc := NewAPIKeyService(context.Background(), "secret-key", nil, nil)

	if !svc.Verify("secret-key") {
		t.Fatal("expected matching key to verify")
	}
	if svc.Verify("wrong-key") || svc.Verify("") {
		t.Fatal("expected mismatched or empty key to fail")
	}
}

func TestAPIKeyVerifyWithoutConfiguredKey(t *testing.T) {
	svc := NewAPIKeyService(context.Background(), "", nil, nil)
	if svc.Verify("") || svc.Verify("anything") {
		t.Fatal("no configured key means every candidate is rejected")
	}
}

func TestRotateGeneratesHexKeyAndFlushesCache(t *testing.T) {
	cache := NewRecommendationCache(time.Minute)
	cache.Set("rec_x", &models.RecommendationResponse{})

	svc := NewAPIKeyService(context.Background(), "old-key", nil, cache)
	key, err := svc.Rotate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hexKeyPattern.MatchString(key) {
		t.Fatalf("expected 64 hex chars, got %q", key)
	}

	if svc.Verify("old-key") {
		t.Fatal("old key must stop working after rotation")
	}
	if !svc.Verify(key) {
		t.Fatal("new key must verify")
	}
	if cache.Len() != 0 {
		t.Fatal("rotation must flush the recommendation cache")
	}
}

func TestRotateProducesUniqueKeys(t *testing.T) {
	svc := NewAPIKeyService(context.Background(), "", nil, nil)
	a, err := svc.Rotate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Rotate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("rotations must produce distinct keys")
	}
}
