package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

type FeedbackService interface {
	List(ctx context.Context) ([]*types.Feedback, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Feedback, error)
	// Resolve marks the item resolved by the current operator.
	Resolve(ctx context.Context, id uuid.UUID) (*types.Feedback, error)
}

type feedbackService struct {
	log    *logger.Logger
	repo   repos.FeedbackRepo
	audit  AuditService
	notify ChangeNotifier
	now    func() time.Time
}

func NewFeedbackService(log *logger.Logger, repo repos.FeedbackRepo, audit AuditService, notify ChangeNotifier) FeedbackService {
	return &feedbackService{
		log:    log.With("service", "FeedbackService"),
		repo:   repo,
		audit:  audit,
		notify: orNop(notify),
		now:    time.Now,
	}
}

func (s *feedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	return s.repo.ListNewestFirst(dbctx.Background(ctx))
}

func (s *feedbackService) Get(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	fb, err := s.repo.GetByID(dbctx.Background(ctx), id)
	if err != nil {
		if dataerr.IsCode(err, dataerr.CodeNotFound) {
			return nil, apierr.NotFound("feedback_not_found", fmt.Errorf("feedback %s not found", id))
		}
		return nil, err
	}
	return fb, nil
}

func (s *feedbackService) Resolve(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	fb, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resolvedBy := ""
	if op := ctxutil.GetOperator(ctx); op != nil {
		resolvedBy = op.UserID.String()
	}
	at := s.now().UTC()
	fields := map[string]any{
		"status":      types.FeedbackStatusResolved,
		"resolved_at": at,
		"resolved_by": resolvedBy,
	}
	if err := s.repo.UpdateFields(dbctx.Background(ctx), id, fields); err != nil {
		return nil, fmt.Errorf("resolve feedback: %w", err)
	}
	fb.Status = types.FeedbackStatusResolved
	fb.ResolvedAt = &at
	fb.ResolvedBy = resolvedBy

	s.audit.Record(ctx, types.AuditFeedbackResolved, fmt.Sprintf("Admin resolved feedback: %s", id),
		map[string]any{"feedback_id": id.String()})
	s.notify.CollectionChanged(ctx, types.CollectionFeedback)
	return fb, nil
}
