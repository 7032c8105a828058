package repos

import (
	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type FeedbackRepo interface {
	Create(dbc dbctx.Context, items []*types.Feedback) ([]*types.Feedback, error)
	// ListNewestFirst orders by created_at descending.
	ListNewestFirst(dbc dbctx.Context) ([]*types.Feedback, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Feedback, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) Create(dbc dbctx.Context, items []*types.Feedback) ([]*types.Feedback, error) {
	if len(items) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := dbc.DB(r.db).Create(&items).Error; err != nil {
		return nil, dataerr.MapError("feedback.create", err)
	}
	return items, nil
}

func (r *feedbackRepo) ListNewestFirst(dbc dbctx.Context) ([]*types.Feedback, error) {
	var out []*types.Feedback
	if err := dbc.DB(r.db).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, dataerr.MapError("feedback.list", err)
	}
	return out, nil
}

func (r *feedbackRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Feedback, error) {
	var f types.Feedback
	if err := dbc.DB(r.db).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, dataerr.MapError("feedback.get", err)
	}
	return &f, nil
}

func (r *feedbackRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.Feedback{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return dataerr.MapError("feedback.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return dataerr.MapError("feedback.update", gorm.ErrRecordNotFound)
	}
	return nil
}
