package repos

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	ListAll(dbc dbctx.Context) ([]*types.User, error)
	ListPage(dbc dbctx.Context, limit int) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	// UpdateFields merges the given columns into an existing row.
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	SetRole(dbc dbctx.Context, id uuid.UUID, role string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(ur.db).Create(&users).Error; err != nil {
		return nil, dataerr.MapError("users.create", err)
	}
	return users, nil
}

func (ur *userRepo) ListAll(dbc dbctx.Context) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).Order("created_at ASC, id ASC").Find(&results).Error; err != nil {
		return nil, dataerr.MapError("users.list", err)
	}
	return results, nil
}

func (ur *userRepo) ListPage(dbc dbctx.Context, limit int) ([]*types.User, error) {
	var results []*types.User
	q := dbc.DB(ur.db).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, dataerr.MapError("users.list_page", err)
	}
	return results, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var u types.User
	if err := dbc.DB(ur.db).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, dataerr.MapError("users.get", err)
	}
	return &u, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, dataerr.Validation("users.get_by_email", "email required")
	}
	var u types.User
	if err := dbc.DB(ur.db).Where("LOWER(email) = ?", email).First(&u).Error; err != nil {
		return nil, dataerr.MapError("users.get_by_email", err)
	}
	return &u, nil
}

func (ur *userRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return dataerr.MapError("users.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return dataerr.MapError("users.update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (ur *userRepo) SetRole(dbc dbctx.Context, id uuid.UUID, role string) error {
	if strings.TrimSpace(role) == "" {
		return dataerr.Validation("users.set_role", "role required")
	}
	err := ur.UpdateFields(dbc, id, map[string]any{"role": role})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		ur.log.Warn("set role failed", "user_id", id, "error", err)
	}
	return err
}
