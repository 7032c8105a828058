package app

import (
	"github.com/yungbote/intelliplan-admin/internal/changefeed"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

type Services struct {
	Notifier  services.ChangeNotifier
	Audit     services.AuditService
	Auth      services.AuthService
	Operators services.OperatorService
	Overrides services.OverrideService
	Profiles  services.ProfileService
	Subjects  services.SubjectService
	Feedback  services.FeedbackService
}

// wireServices builds the write and read services. memFeed is non-nil when
// the database does not emit change notifications itself.
func wireServices(log *logger.Logger, core *Core, stores *dashboard.Manager, memFeed *changefeed.MemoryFeed, emit services.SSEEmitter) Services {
	log.Info("Wiring services...")
	set := core.Repos

	notifier := services.NewDashboardNotifier(log, stores, memFeed, emit)
	audit := services.NewAuditService(log, set.AuditLogs, notifier)
	return Services{
		Notifier:  notifier,
		Audit:     audit,
		Auth:      services.NewAuthService(log, set.Users, audit, core.Cfg.JWTSecretKey, core.Cfg.SessionTTL),
		Operators: services.NewOperatorService(log, set.Users, set.Tx, audit),
		Overrides: services.NewOverrideService(log, set.Users, set.Gamification, audit, notifier, services.DefaultWriteRetry),
		Profiles:  services.NewProfileService(log, set, core.Enricher),
		Subjects:  services.NewSubjectService(log, set.Subjects, audit, notifier),
		Feedback:  services.NewFeedbackService(log, set.Feedback, audit, notifier),
	}
}
