package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, s *types.Subject) (*types.Subject, error)
	List(dbc dbctx.Context) ([]*types.Subject, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) Create(dbc dbctx.Context, s *types.Subject) (*types.Subject, error) {
	if s == nil {
		return nil, dataerr.Validation("subjects.create", "subject required")
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, dataerr.MapError("subjects.create", err)
	}
	return s, nil
}

func (r *subjectRepo) List(dbc dbctx.Context) ([]*types.Subject, error) {
	var out []*types.Subject
	if err := dbc.DB(r.db).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, dataerr.MapError("subjects.list", err)
	}
	return out, nil
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	var s types.Subject
	if err := dbc.DB(r.db).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, dataerr.MapError("subjects.get", err)
	}
	return &s, nil
}

func (r *subjectRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).Model(&types.Subject{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return dataerr.MapError("subjects.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return dataerr.MapError("subjects.update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *subjectRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Subject{})
	if res.Error != nil {
		return dataerr.MapError("subjects.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return dataerr.MapError("subjects.delete", gorm.ErrRecordNotFound)
	}
	return nil
}
