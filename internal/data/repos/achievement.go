package repos

import (
	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type AchievementRepo interface {
	Create(dbc dbctx.Context, items []*types.Achievement) ([]*types.Achievement, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) Create(dbc dbctx.Context, items []*types.Achievement) ([]*types.Achievement, error) {
	if len(items) == 0 {
		return []*types.Achievement{}, nil
	}
	if err := dbc.DB(r.db).Create(&items).Error; err != nil {
		return nil, dataerr.MapError("achievements.create", err)
	}
	return items, nil
}

func (r *achievementRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Achievement, error) {
	var out []*types.Achievement
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, dataerr.MapError("achievements.list", err)
	}
	return out, nil
}
