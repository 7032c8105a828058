package repos

import (
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

const DefaultAuditLimit = 100

// AuditLogRepo is append-only.
type AuditLogRepo interface {
	Append(dbc dbctx.Context, entry *types.AuditLog) error
	ListRecent(dbc dbctx.Context, limit int) ([]*types.AuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Append(dbc dbctx.Context, entry *types.AuditLog) error {
	if entry == nil {
		return dataerr.Validation("audit_logs.append", "entry required")
	}
	return dataerr.MapError("audit_logs.append", dbc.DB(r.db).Create(entry).Error)
}

func (r *auditLogRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	var out []*types.AuditLog
	if err := dbc.DB(r.db).Order("timestamp DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, dataerr.MapError("audit_logs.list", err)
	}
	return out, nil
}
