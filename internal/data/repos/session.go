package repos

import (
	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.StudySession) ([]*types.StudySession, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudySession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, sessions []*types.StudySession) ([]*types.StudySession, error) {
	if len(sessions) == 0 {
		return []*types.StudySession{}, nil
	}
	if err := dbc.DB(r.db).Create(&sessions).Error; err != nil {
		return nil, dataerr.MapError("sessions.create", err)
	}
	return sessions, nil
}

func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudySession, error) {
	var out []*types.StudySession
	q := dbc.DB(r.db).Where("user_id = ?", userID).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, dataerr.MapError("sessions.list", err)
	}
	return out, nil
}
