package utils

import "testing"

func TestCalculateMD5(t *testing.T) {
	// 已知向量
	if got := CalculateMD5("hello"); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("unexpected digest: %s", got)
	}
	if got := CalculateMD5(""); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("unexpected digest for empty input: %s", got)
	}
}

func TestGenerateAPIKeyFormat(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(key) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(key))
	}
	for _, c := range key {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Fatalf("non-hex character %q in key", c)
		}
	}
}

func TestSecureCompare(t *testing.T) {
	if !SecureCompare("abc", "abc") {
		t.Fatal("expected equal strings to compare true")
	}
	if SecureCompare("abc", "abd") || SecureCompare("abc", "abcd") {
		t.Fatal("expected different strings to compare false")
	}
}

func TestMaskAPIKey(t *testing.T) {
	masked := MaskAPIKey("0123456789abcdef0123456789abcdef")
	if masked != "01234567…cdef" {
		t.Fatalf("unexpected mask: %s", masked)
	}
	if MaskAPIKey("short") != "…" {
		t.Fatal("short keys must be fully masked")
	}
}
