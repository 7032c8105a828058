package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

type AuditService interface {
	// Record appends an entry attributed to the operator in ctx. A failed
	// append is logged and never fails the action being audited.
	Record(ctx context.Context, kind, message string, meta map[string]any)
	List(ctx context.Context, limit int) ([]*types.AuditLog, error)
}

type auditService struct {
	log    *logger.Logger
	repo   repos.AuditLogRepo
	notify ChangeNotifier
}

func NewAuditService(log *logger.Logger, repo repos.AuditLogRepo, notify ChangeNotifier) AuditService {
	return &auditService{log: log.With("service", "AuditService"), repo: repo, notify: orNop(notify)}
}

func (s *auditService) Record(ctx context.Context, kind, message string, meta map[string]any) {
	entry := &types.AuditLog{Type: kind, Message: message}
	if op := ctxutil.GetOperator(ctx); op != nil {
		entry.AdminID = op.UserID.String()
		entry.AdminEmail = op.Email
	}
	if len(meta) > 0 {
		if raw, err := json.Marshal(meta); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.repo.Append(dbctx.Background(ctx), entry); err != nil {
		s.log.Error("audit append failed", "type", kind, "error", err)
		return
	}
	s.notify.CollectionChanged(ctx, types.CollectionAuditLogs)
}

func (s *auditService) List(ctx context.Context, limit int) ([]*types.AuditLog, error) {
	if limit <= 0 {
		limit = repos.DefaultAuditLimit
	}
	return s.repo.ListRecent(dbctx.Background(ctx), limit)
}
