package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/intelliplan-admin/internal/platform/config"
	"github.com/yungbote/intelliplan-admin/internal/platform/gcp"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime/bus"
)

// Clients are the optional external connections. Each is nil when its
// setting is empty.
type Clients struct {
	SSEBus  bus.Bus
	Reports gcp.ReportStore
}

func wireClients(ctx context.Context, log *logger.Logger, cfg config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var sseBus bus.Bus
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	// Gcs
	var reports gcp.ReportStore
	if strings.TrimSpace(cfg.ReportBucket) != "" {
		rs, err := gcp.NewReportStore(ctx, log, gcp.ReportStoreConfig{
			Bucket:       cfg.ReportBucket,
			Prefix:       cfg.ReportObjectPrefix,
			Credentials:  cfg.GoogleCredentials,
			EmulatorHost: cfg.StorageEmulator,
		})
		if err != nil {
			if sseBus != nil {
				_ = sseBus.Close()
			}
			return Clients{}, fmt.Errorf("init report store: %w", err)
		}
		reports = rs
	}

	return Clients{SSEBus: sseBus, Reports: reports}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Reports != nil {
		_ = c.Reports.Close()
	}
}
