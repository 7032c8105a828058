package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

const collectorInterval = 15 * time.Second

// Metrics holds the process-wide dashboard metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *GaugeVec

	reconcileRuns     *CounterVec
	reconcileLatency  *HistogramVec
	snapshotState     *GaugeVec
	enrichDegraded    *CounterVec
	changeEvents      *CounterVec
	dashboardSessions *GaugeVec
	sseClients        *GaugeVec
	overrides         *CounterVec

	pgStats *GaugeVec
	redisUp *GaugeVec
}

var (
	metricsOnce sync.Once
	instance    *Metrics
)

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("admin_api_requests_total", "HTTP requests served", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("admin_api_request_seconds", "HTTP request latency", []string{"method", "route"}, nil),
		apiInflight: NewGaugeVec("admin_api_inflight", "HTTP requests in flight", nil),

		reconcileRuns:     NewCounterVec("admin_reconcile_runs_total", "Reconcile passes by outcome", []string{"outcome"}),
		reconcileLatency:  NewHistogramVec("admin_reconcile_seconds", "Reconcile pass latency", nil, []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}),
		snapshotState:     NewGaugeVec("admin_snapshot", "Published user summary snapshot", []string{"field"}),
		enrichDegraded:    NewCounterVec("admin_enrich_degraded_total", "Enrichment lookups that fell back to defaults", []string{"lookup"}),
		changeEvents:      NewCounterVec("admin_change_events_total", "Change feed events by collection and outcome", []string{"collection", "outcome"}),
		dashboardSessions: NewGaugeVec("admin_dashboard_sessions", "Open operator dashboard stores", nil),
		sseClients:        NewGaugeVec("admin_sse_clients", "Connected event streams", nil),
		overrides:         NewCounterVec("admin_overrides_total", "Manual XP and streak overrides by outcome", []string{"field", "outcome"}),

		pgStats: NewGaugeVec("admin_postgres_pool", "database/sql pool stats", []string{"stat"}),
		redisUp: NewGaugeVec("admin_redis_up", "Redis reachability", nil),
	}
}

// Init creates the process metrics once.
func Init(log *logger.Logger) *Metrics {
	metricsOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Debug("metrics initialized")
		}
	})
	return instance
}

// Current returns the metrics created by Init, or nil.
func Current() *Metrics { return instance }

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m != nil {
		m.apiInflight.Add(delta)
	}
}

// ObserveReconcile records one pass. outcome is published, stale or failed.
func (m *Metrics) ObserveReconcile(outcome string, dur time.Duration, generation uint64, users int) {
	if m == nil {
		return
	}
	m.reconcileRuns.Inc(outcome)
	m.reconcileLatency.Observe(dur.Seconds())
	if outcome == "published" {
		m.snapshotState.Set(float64(generation), "generation")
		m.snapshotState.Set(float64(users), "users")
		m.snapshotState.Set(float64(time.Now().Unix()), "built_at_seconds")
	}
}

func (m *Metrics) IncDegraded(lookup string) {
	if m != nil {
		m.enrichDegraded.Inc(lookup)
	}
}

// IncChangeEvent counts feed events; outcome is absorbed or dropped.
func (m *Metrics) IncChangeEvent(collection, outcome string) {
	if m != nil {
		m.changeEvents.Inc(collection, outcome)
	}
}

func (m *Metrics) SetDashboardSessions(n int) {
	if m != nil {
		m.dashboardSessions.Set(float64(n))
	}
}

func (m *Metrics) SSEClients(delta float64) {
	if m != nil {
		m.sseClients.Add(delta)
	}
}

// IncOverride counts an XP or streak override; outcome is ok, rolled_back,
// diverged or failed.
func (m *Metrics) IncOverride(field, outcome string) {
	if m != nil {
		m.overrides.Inc(field, outcome)
	}
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, f := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.reconcileRuns, m.reconcileLatency, m.snapshotState,
		m.enrichDegraded, m.changeEvents, m.dashboardSessions,
		m.sseClients, m.overrides, m.pgStats, m.redisUp,
	} {
		if err := f.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

// StartServer serves /metrics on addr until ctx ends. An empty addr is a
// no-op.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go tick(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("metrics: postgres stats unavailable", "error", err)
			return
		}
		stats := sqlDB.Stats()
		m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
		m.pgStats.Set(float64(stats.InUse), "in_use")
		m.pgStats.Set(float64(stats.Idle), "idle")
		m.pgStats.Set(float64(stats.WaitCount), "wait_count")
		m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	})
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		<-ctx.Done()
		_ = rdb.Close()
	}()
	go tick(ctx, func() {
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.Set(0)
			log.Warn("metrics: redis ping failed", "error", err)
			return
		}
		m.redisUp.Set(1)
	})
}

func tick(ctx context.Context, fn func()) {
	t := time.NewTicker(collectorInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}
