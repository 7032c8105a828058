package repos

import (
	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type TaskRepo interface {
	Create(dbc dbctx.Context, tasks []*types.Task) ([]*types.Task, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	// ListByUser returns at most limit tasks, newest first; limit <= 0 is
	// unbounded.
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Task, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Create(dbc dbctx.Context, tasks []*types.Task) ([]*types.Task, error) {
	if len(tasks) == 0 {
		return []*types.Task{}, nil
	}
	if err := dbc.DB(r.db).Create(&tasks).Error; err != nil {
		return nil, dataerr.MapError("tasks.create", err)
	}
	return tasks, nil
}

func (r *taskRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Task{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, dataerr.MapError("tasks.count", err)
	}
	return n, nil
}

func (r *taskRepo) CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Task{}).
		Where("user_id = ? AND status = ?", userID, types.TaskStatusCompleted).
		Count(&n).Error
	if err != nil {
		return 0, dataerr.MapError("tasks.count_completed", err)
	}
	return n, nil
}

func (r *taskRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Task, error) {
	var out []*types.Task
	q := dbc.DB(r.db).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, dataerr.MapError("tasks.list", err)
	}
	return out, nil
}
