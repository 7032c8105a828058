package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsSecretsAndHashesIdentifiers(t *testing.T) {
	kv := sanitizeKVs([]interface{}{
		"admin_email", "ops@intelliplan.app",
		"user_id", "2b7c0f1e",
		"count", 3,
	})
	if len(kv) != 6 {
		t.Fatalf("sanitizeKVs: want 6 items, got %d", len(kv))
	}
	if kv[1] != "[REDACTED]" {
		t.Fatalf("admin_email: want redacted, got %v", kv[1])
	}
	hashed, ok := kv[3].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") {
		t.Fatalf("user_id: want hash, got %v", kv[3])
	}
	if kv[5] != 3 {
		t.Fatalf("count: want passthrough, got %v", kv[5])
	}
}

func TestSanitizeKeepsTrailingOddKey(t *testing.T) {
	kv := sanitizeKVs([]interface{}{"service", "Reconciler", "dangling"})
	if len(kv) != 3 || kv[2] != "dangling" {
		t.Fatalf("unexpected kv: %v", kv)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig") {
		t.Fatalf("expected jwt-shaped string to match")
	}
	if looksLikeJWT("pomodoro") {
		t.Fatalf("plain string should not match")
	}
}
