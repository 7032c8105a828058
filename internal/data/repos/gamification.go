package repos

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepo interface {
	// GetByUserID returns (nil, nil) when the user has no profile yet.
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.GamificationProfile, error)
	// MergeFields creates the profile if absent and otherwise overwrites only
	// the given columns.
	MergeFields(dbc dbctx.Context, userID uuid.UUID, fields map[string]any) error
	// Replace writes the whole profile back, used to undo a merge.
	Replace(dbc dbctx.Context, profile *types.GamificationProfile) error
	Delete(dbc dbctx.Context, userID uuid.UUID) error
}

type gamificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGamificationRepo(db *gorm.DB, baseLog *logger.Logger) GamificationRepo {
	return &gamificationRepo{db: db, log: baseLog.With("repo", "GamificationRepo")}
}

func (r *gamificationRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.GamificationProfile, error) {
	var gp types.GamificationProfile
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&gp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dataerr.MapError("gamification.get", err)
	}
	return &gp, nil
}

func (r *gamificationRepo) MergeFields(dbc dbctx.Context, userID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	now := time.Now().UTC()
	row := map[string]any{"user_id": userID, "updated_at": now}
	cols := make([]string, 0, len(fields)+1)
	for k, v := range fields {
		row[k] = v
		cols = append(cols, k)
	}
	cols = append(cols, "updated_at")
	err := dbc.DB(r.db).
		Model(&types.GamificationProfile{}).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(row).Error
	return dataerr.MapError("gamification.merge", err)
}

func (r *gamificationRepo) Replace(dbc dbctx.Context, profile *types.GamificationProfile) error {
	if profile == nil {
		return nil
	}
	return dataerr.MapError("gamification.replace", dbc.DB(r.db).Save(profile).Error)
}

func (r *gamificationRepo) Delete(dbc dbctx.Context, userID uuid.UUID) error {
	err := dbc.DB(r.db).Where("user_id = ?", userID).Delete(&types.GamificationProfile{}).Error
	return dataerr.MapError("gamification.delete", err)
}
