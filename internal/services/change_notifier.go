package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/changefeed"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

// ChangeNotifier is told about every successful admin write so open
// dashboards stop showing the pre-write state.
type ChangeNotifier interface {
	// UserChanged reports a write to a per-user document.
	UserChanged(ctx context.Context, collection string, userID uuid.UUID)
	// CollectionChanged reports a write to a side collection.
	CollectionChanged(ctx context.Context, collection string)
}

type dashboardNotifier struct {
	log    *logger.Logger
	stores *dashboard.Manager
	// feed is set when the database cannot emit change notifications itself.
	feed *changefeed.MemoryFeed
	emit SSEEmitter
}

func NewDashboardNotifier(log *logger.Logger, stores *dashboard.Manager, feed *changefeed.MemoryFeed, emit SSEEmitter) ChangeNotifier {
	return &dashboardNotifier{log: log.With("service", "DashboardNotifier"), stores: stores, feed: feed, emit: emit}
}

func (n *dashboardNotifier) UserChanged(ctx context.Context, collection string, userID uuid.UUID) {
	if n.feed != nil && !n.feed.Publish(collection, "UPDATE", userID) {
		n.log.Warn("change event dropped", "collection", collection, "user_id", userID)
	}
	if kind, ok := kindForCollection(collection); ok {
		n.reload(ctx, kind)
	}
	if n.emit != nil {
		id := userID
		n.emit.Emit(ctx, realtime.CollectionMessage(collection, &id))
	}
}

func (n *dashboardNotifier) CollectionChanged(ctx context.Context, collection string) {
	if kind, ok := kindForCollection(collection); ok {
		n.reload(ctx, kind)
	}
	if n.emit != nil {
		n.emit.Emit(ctx, realtime.CollectionMessage(collection, nil))
	}
}

func (n *dashboardNotifier) reload(ctx context.Context, kind dashboard.Kind) {
	if n.stores == nil {
		return
	}
	n.stores.ForEach(func(s *dashboard.Store) {
		if !s.Loaded() {
			return
		}
		if err := s.Load(ctx, kind); err != nil {
			n.log.Warn("dashboard reload failed", "kind", string(kind), "error", err)
		}
	})
}

func kindForCollection(collection string) (dashboard.Kind, bool) {
	switch collection {
	case types.CollectionTasks:
		return dashboard.KindTasks, true
	case types.CollectionSessions:
		return dashboard.KindSessions, true
	case types.CollectionAchievements:
		return dashboard.KindAchievements, true
	case types.CollectionSubjects:
		return dashboard.KindSubjects, true
	case types.CollectionFeedback:
		return dashboard.KindFeedback, true
	case types.CollectionAuditLogs:
		return dashboard.KindAuditLogs, true
	default:
		return "", false
	}
}

// NopNotifier ignores every change.
type NopNotifier struct{}

func (NopNotifier) UserChanged(context.Context, string, uuid.UUID) {}
func (NopNotifier) CollectionChanged(context.Context, string)      {}

func orNop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
