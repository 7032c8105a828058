package gcp

import (
	"context"
	"testing"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

func TestObjectKey(t *testing.T) {
	cases := []struct{ prefix, name, want string }{
		{"exports/", "dashboard.xlsx", "exports/dashboard.xlsx"},
		{"/exports", "/dashboard.xlsx", "exports/dashboard.xlsx"},
		{"", "dashboard.xlsx", "dashboard.xlsx"},
		{"exports", "", "exports/"},
	}
	for _, c := range cases {
		if got := ObjectKey(c.prefix, c.name); got != c.want {
			t.Fatalf("ObjectKey(%q,%q): want=%q got=%q", c.prefix, c.name, c.want, got)
		}
	}
}

func TestPublicURL(t *testing.T) {
	if got := PublicURL("", "reports", "exports/a b.xlsx"); got != "https://storage.googleapis.com/reports/exports/a%20b.xlsx" {
		t.Fatalf("gcs url: got %s", got)
	}
	if got := PublicURL("http://localhost:4443", "reports", "exports/a.xlsx"); got != "http://localhost:4443/storage/v1/b/reports/o/exports%2Fa.xlsx?alt=media" {
		t.Fatalf("emulator url: got %s", got)
	}
}

func TestNewReportStoreValidates(t *testing.T) {
	ctx := context.Background()
	if _, err := NewReportStore(ctx, logger.Nop(), ReportStoreConfig{}); err == nil {
		t.Fatalf("missing bucket: want error")
	}
	if _, err := NewReportStore(ctx, logger.Nop(), ReportStoreConfig{Bucket: "b", EmulatorHost: "not a url"}); err == nil {
		t.Fatalf("bad emulator host: want error")
	}
}

func TestClientOptions(t *testing.T) {
	if got := len(ClientOptions("", "http://localhost:4443")); got != 1 {
		t.Fatalf("emulator options: want=1 got=%d", got)
	}
	if got := len(ClientOptions(`{"type":"service_account"}`, "")); got != 2 {
		t.Fatalf("inline creds options: want=2 got=%d", got)
	}
	if got := len(ClientOptions("", "")); got != 1 {
		t.Fatalf("default creds options: want=1 got=%d", got)
	}
}
