package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/intelliplan-admin/internal/changefeed"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/data/db"
	"github.com/yungbote/intelliplan-admin/internal/http"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/config"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime"
	"github.com/yungbote/intelliplan-admin/internal/reconcile"
)

type App struct {
	*Core

	Router    *gin.Engine
	Services  Services
	Clients   Clients
	Stores    *dashboard.Manager
	SSEHub    *realtime.SSEHub
	Publisher *realtime.Publisher
	Feed      changefeed.Feed
	Metrics   *observability.Metrics

	shutdownOtel func(context.Context) error
}

// New wires the server over a Postgres core.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.OtelEnvironment,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		Headers:     cfg.OtelHeaders,
		SampleRatio: cfg.OtelSampleRatio,
	})

	core, err := NewCore(cfg, log)
	if err != nil {
		_ = shutdownOtel(ctx)
		return nil, err
	}
	a, err := Assemble(ctx, core)
	if err != nil {
		core.Close()
		_ = shutdownOtel(ctx)
		return nil, err
	}
	a.shutdownOtel = shutdownOtel
	return a, nil
}

// Assemble builds the serving layer on top of core.
func Assemble(ctx context.Context, core *Core) (*App, error) {
	log := core.Log
	metrics := observability.Init(log)

	clients, err := wireClients(ctx, log, core.Cfg)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewSSEHub(log)
	var transport realtime.Transport
	if clients.SSEBus != nil {
		transport = clients.SSEBus
	}
	publisher := realtime.NewPublisher(hub, transport, log)

	var (
		feed    changefeed.Feed
		memFeed *changefeed.MemoryFeed
	)
	if core.Cfg.ChangeFeed == config.ChangeFeedPostgres && core.DSN() != "" {
		feed = changefeed.NewPostgresFeed(core.DSN(), db.ChangeChannel, log)
	} else {
		memFeed = changefeed.NewMemoryFeed()
		feed = memFeed
	}

	stores := dashboard.NewManager(core.Reconciler, core.Loader, core.Cfg.Location(), log)
	services := wireServices(log, core, stores, memFeed, publisher)

	core.Reconciler.Subscribe(func(s *reconcile.Snapshot) {
		publisher.Emit(context.Background(), realtime.SnapshotMessage(s.Generation, s.Len(), s.BuiltAt))
	})
	services.Auth.OnLogout(func(sessionID uuid.UUID) {
		stores.Close(sessionID)
		publisher.Emit(context.Background(), realtime.SessionEndedMessage(sessionID))
		metrics.SetDashboardSessions(stores.Len())
	})

	handlers := wireHandlers(log, core, services, stores, hub, clients.Reports)
	middleware := wireMiddleware(log, services)
	router := wireRouter(log, core, handlers, middleware)

	return &App{
		Core:         core,
		Router:       router,
		Services:     services,
		Clients:      clients,
		Stores:       stores,
		SSEHub:       hub,
		Publisher:    publisher,
		Feed:         feed,
		Metrics:      metrics,
		shutdownOtel: func(context.Context) error { return nil },
	}, nil
}

// Run serves until ctx ends or a component fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Feed.Run(ctx) })
	g.Go(func() error { return a.Reconciler.Run(ctx, a.Feed) })
	g.Go(func() error { return a.Publisher.Start(ctx) })
	g.Go(func() error {
		a.sweep(ctx)
		return nil
	})

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)

	srv := &http.Server{Engine: a.Router}
	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("Serving admin API", "addr", addr, "change_feed", a.Cfg.ChangeFeed)
		err := srv.Run(ctx, addr, a.Cfg.ShutdownTimeout)
		a.Stores.CloseAll()
		return err
	})
	return g.Wait()
}

// sweep ends expired operator sessions and drops idle dashboard stores.
func (a *App) sweep(ctx context.Context) {
	interval := a.Cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			expired := a.Services.Auth.SweepExpired(now)
			idle := a.Stores.Sweep(a.Cfg.StoreMaxIdle, now)
			a.Metrics.SetDashboardSessions(a.Stores.Len())
			if expired > 0 || idle > 0 {
				a.Log.Debug("session sweep", "expired_sessions", expired, "idle_stores", idle)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Stores != nil {
		a.Stores.CloseAll()
	}
	a.Clients.Close()
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOtel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Core.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
