// Package repos is the storage collaborator: one repo per collection, each
// taking a dbctx.Context so callers can enlist it in a transaction.
package repos

import (
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

// Set bundles every repo over one database handle.
type Set struct {
	Users        UserRepo
	Gamification GamificationRepo
	Tasks        TaskRepo
	Sessions     SessionRepo
	Achievements AchievementRepo
	Subjects     SubjectRepo
	Feedback     FeedbackRepo
	AuditLogs    AuditLogRepo
	Tx           dataerr.TxRunner
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) *Set {
	return &Set{
		Users:        NewUserRepo(db, baseLog),
		Gamification: NewGamificationRepo(db, baseLog),
		Tasks:        NewTaskRepo(db, baseLog),
		Sessions:     NewSessionRepo(db, baseLog),
		Achievements: NewAchievementRepo(db, baseLog),
		Subjects:     NewSubjectRepo(db, baseLog),
		Feedback:     NewFeedbackRepo(db, baseLog),
		AuditLogs:    NewAuditLogRepo(db, baseLog),
		Tx:           dataerr.NewGormTxRunner(db),
	}
}
