package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/data/db"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	"github.com/yungbote/intelliplan-admin/internal/enrich"
	"github.com/yungbote/intelliplan-admin/internal/platform/config"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/reconcile"
)

// Core is the storage and summary pipeline shared by the server and the
// one-shot commands.
type Core struct {
	Cfg config.Config
	Log *logger.Logger

	DB    *gorm.DB
	pg    *db.PostgresService
	Repos *repos.Set

	Enricher   *enrich.Enricher
	Reconciler *reconcile.Reconciler
	Loader     *dashboard.Loader
	Thresholds aggregate.Thresholds
}

// NewCore connects to Postgres and migrates the schema.
func NewCore(cfg config.Config, log *logger.Logger) (*Core, error) {
	pg, err := db.NewPostgresService(cfg.DSN(), log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	if cfg.ChangeFeed == config.ChangeFeedPostgres {
		if err := db.EnsureChangeTriggers(pg.DB()); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("install change triggers: %w", err)
		}
	}
	core, err := NewCoreWithDB(cfg, log, pg.DB())
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	core.pg = pg
	return core, nil
}

// NewCoreWithDB wires the pipeline over an already migrated database.
func NewCoreWithDB(cfg config.Config, log *logger.Logger, gdb *gorm.DB) (*Core, error) {
	th, err := aggregate.LoadThresholds(cfg.InsightsConfig)
	if err != nil {
		return nil, err
	}
	log.Info("Wiring repos...")
	set := repos.NewSet(gdb, log)
	enricher := enrich.New(set.Gamification, set.Tasks, log)
	rec := reconcile.New(set.Users, enricher, reconcile.Options{
		MaxConcurrency: cfg.ReconcileMaxConcurrency,
		Debounce:       cfg.ReconcileDebounce,
		RetryBackoff:   cfg.ReconcileRetryBackoff,
	}, log)
	return &Core{
		Cfg:        cfg,
		Log:        log,
		DB:         gdb,
		Repos:      set,
		Enricher:   enricher,
		Reconciler: rec,
		Loader:     dashboard.NewLoader(set, cfg.ReconcileMaxConcurrency, log),
		Thresholds: th,
	}, nil
}

// DSN is empty when the core was built over a caller-supplied database.
func (c *Core) DSN() string {
	if c == nil || c.pg == nil {
		return ""
	}
	return c.pg.DSN()
}

func (c *Core) Close() {
	if c == nil || c.pg == nil {
		return
	}
	if err := c.pg.Close(); err != nil {
		c.Log.Warn("postgres close failed", "error", err)
	}
}
