package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

type SubjectInput struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Department string `json:"department"`
	Color      string `json:"color"`
}

type SubjectService interface {
	List(ctx context.Context) ([]*types.Subject, error)
	Create(ctx context.Context, in SubjectInput) (*types.Subject, error)
	// Update changes name, category, department and color. Blank optional
	// fields keep their current value; the code is immutable.
	Update(ctx context.Context, id uuid.UUID, in SubjectInput) (*types.Subject, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subjectService struct {
	log    *logger.Logger
	repo   repos.SubjectRepo
	audit  AuditService
	notify ChangeNotifier
}

func NewSubjectService(log *logger.Logger, repo repos.SubjectRepo, audit AuditService, notify ChangeNotifier) SubjectService {
	return &subjectService{log: log.With("service", "SubjectService"), repo: repo, audit: audit, notify: orNop(notify)}
}

func (s *subjectService) List(ctx context.Context) ([]*types.Subject, error) {
	return s.repo.List(dbctx.Background(ctx))
}

func (s *subjectService) Create(ctx context.Context, in SubjectInput) (*types.Subject, error) {
	code, name := strings.TrimSpace(in.Code), strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, apierr.BadRequest("invalid_subject", fmt.Errorf("subject code and name are required"))
	}
	subj := &types.Subject{
		Code:       code,
		Name:       name,
		Category:   strings.TrimSpace(in.Category),
		Department: strings.TrimSpace(in.Department),
		Color:      strings.TrimSpace(in.Color),
	}
	subj.ApplyDefaults()
	if op := ctxutil.GetOperator(ctx); op != nil {
		subj.CreatedBy = op.UserID.String()
	}
	created, err := s.repo.Create(dbctx.Background(ctx), subj)
	if err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	s.audit.Record(ctx, types.AuditSubjectCreated, fmt.Sprintf("Admin created subject: %s - %s", code, name),
		map[string]any{"subject_id": created.ID.String()})
	s.notify.CollectionChanged(ctx, types.CollectionSubjects)
	return created, nil
}

func (s *subjectService) get(ctx context.Context, id uuid.UUID) (*types.Subject, error) {
	subj, err := s.repo.GetByID(dbctx.Background(ctx), id)
	if err != nil {
		if dataerr.IsCode(err, dataerr.CodeNotFound) {
			return nil, apierr.NotFound("subject_not_found", fmt.Errorf("subject %s not found", id))
		}
		return nil, err
	}
	return subj, nil
}

func (s *subjectService) Update(ctx context.Context, id uuid.UUID, in SubjectInput) (*types.Subject, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.BadRequest("invalid_subject", fmt.Errorf("subject name is required"))
	}
	subj, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	subj.Name = name
	if v := strings.TrimSpace(in.Category); v != "" {
		subj.Category = v
	}
	if v := strings.TrimSpace(in.Department); v != "" {
		subj.Department = v
	}
	if v := strings.TrimSpace(in.Color); v != "" {
		subj.Color = v
	}
	fields := map[string]any{
		"name":       subj.Name,
		"category":   subj.Category,
		"department": subj.Department,
		"color":      subj.Color,
	}
	if err := s.repo.UpdateFields(dbctx.Background(ctx), id, fields); err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	s.audit.Record(ctx, types.AuditSubjectUpdated, fmt.Sprintf("Admin updated subject: %s - %s", subj.Code, name),
		map[string]any{"subject_id": id.String()})
	s.notify.CollectionChanged(ctx, types.CollectionSubjects)
	return subj, nil
}

func (s *subjectService) Delete(ctx context.Context, id uuid.UUID) error {
	subj, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(dbctx.Background(ctx), id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	s.audit.Record(ctx, types.AuditSubjectDeleted, fmt.Sprintf("Admin deleted subject: %s - %s", subj.Code, subj.Name),
		map[string]any{"subject_id": id.String()})
	s.notify.CollectionChanged(ctx, types.CollectionSubjects)
	return nil
}
