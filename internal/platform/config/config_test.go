package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "ITEMS_PER_PAGE", "SESSION_TTL", "RECONCILE_MAX_CONCURRENCY")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port: want 8080, got %q", cfg.Port)
	}
	if cfg.ItemsPerPage != 20 {
		t.Fatalf("items per page: want 20, got %d", cfg.ItemsPerPage)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Fatalf("session ttl: want 8h, got %s", cfg.SessionTTL)
	}
	if cfg.ReconcileMaxConcurrency != 0 {
		t.Fatalf("reconcile concurrency: want unlimited (0), got %d", cfg.ReconcileMaxConcurrency)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("REPORT_BUCKET=admin-reports\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	unsetEnv(t, "REPORT_BUCKET")
	t.Cleanup(func() { os.Unsetenv("REPORT_BUCKET") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReportBucket != "admin-reports" {
		t.Fatalf("report bucket: want admin-reports, got %q", cfg.ReportBucket)
	}
}

func TestDSNPrefersExplicitValue(t *testing.T) {
	cfg := Config{PostgresDSN: " postgres://u:p@db:5432/x ", PostgresHost: "ignored"}
	if got := cfg.DSN(); got != "postgres://u:p@db:5432/x" {
		t.Fatalf("DSN: got %q", got)
	}
	cfg = Config{PostgresUser: "u", PostgresPassword: "p", PostgresHost: "h", PostgresPort: "1", PostgresName: "n"}
	if got := cfg.DSN(); got != "postgres://u:p@h:1/n?sslmode=disable" {
		t.Fatalf("DSN: got %q", got)
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	if loc := (Config{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Fatalf("expected local fallback, got %v", loc)
	}
	if loc := (Config{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v", loc)
	}
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadChangeFeedAndOtel(t *testing.T) {
	t.Setenv("CHANGE_FEED", "Memory")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc,x-team=admin")
	t.Setenv("OTEL_SAMPLER_RATIO", "3")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChangeFeed != ChangeFeedMemory {
		t.Fatalf("change feed: want memory, got %q", cfg.ChangeFeed)
	}
	if cfg.OtelHeaders["x-api-key"] != "abc" || cfg.OtelHeaders["x-team"] != "admin" {
		t.Fatalf("otel headers: got %v", cfg.OtelHeaders)
	}
	if cfg.OtelSampleRatio != 1 {
		t.Fatalf("sample ratio: want clamp to 1, got %v", cfg.OtelSampleRatio)
	}

	t.Setenv("CHANGE_FEED", "kafka")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("unknown change feed: want error")
	}
}
