package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/users", "200", time.Millisecond)
	m.ObserveReconcile("published", time.Second, 3, 10)
	m.IncOverride("xp", "ok")
	m.SSEClients(1)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil WriteHTTP: want=503 got=%d", rec.Code)
	}
}

func TestReconcileAndOverrideExposition(t *testing.T) {
	m := newMetrics()
	m.ObserveReconcile("published", 200*time.Millisecond, 4, 12)
	m.ObserveReconcile("stale", 300*time.Millisecond, 3, 12)
	m.IncOverride("streak", "rolled_back")
	m.IncOverride("streak", "rolled_back")

	if got := m.reconcileRuns.Value("stale"); got != 1 {
		t.Fatalf("stale runs: want=1 got=%v", got)
	}
	if got := m.reconcileLatency.Count(); got != 2 {
		t.Fatalf("reconcile latency count: want=2 got=%d", got)
	}
	if got := m.snapshotState.Value("generation"); got != 4 {
		t.Fatalf("generation: stale pass must not overwrite, want=4 got=%v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`admin_overrides_total{field="streak",outcome="rolled_back"} 2`,
		`admin_snapshot{field="users"} 12`,
		`admin_reconcile_seconds_bucket{le="0.25"} 1`,
		`admin_reconcile_seconds_count 2`,
		"# TYPE admin_api_inflight gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestLabelString(t *testing.T) {
	if got := labelString([]string{"a", "b"}, []string{`x"y`}); got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString: got %s", got)
	}
	if got := withLe(`{a="1"}`, "0.5"); got != `{a="1",le="0.5"}` {
		t.Fatalf("withLe: got %s", got)
	}
}
