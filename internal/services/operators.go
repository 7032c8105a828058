package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

type OperatorService interface {
	// GrantAdmin promotes the user with email to admin. When no such user
	// exists and password is set, an admin account is created.
	GrantAdmin(ctx context.Context, email, name, password string) (*types.User, bool, error)
}

type operatorService struct {
	log   *logger.Logger
	users repos.UserRepo
	tx    dataerr.TxRunner
	audit AuditService
}

func NewOperatorService(log *logger.Logger, users repos.UserRepo, tx dataerr.TxRunner, audit AuditService) OperatorService {
	return &operatorService{log: log.With("service", "OperatorService"), users: users, tx: tx, audit: audit}
}

func (s *operatorService) GrantAdmin(ctx context.Context, email, name, password string) (*types.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, dataerr.Validation("operators.grant_admin", "email required")
	}
	hash := ""
	if password != "" {
		h, err := HashPassword(password)
		if err != nil {
			return nil, false, dataerr.Validation("operators.grant_admin", err.Error())
		}
		hash = h
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin User"
	}

	var (
		out      *types.User
		created  bool
		promoted bool
	)
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		u, err := s.users.GetByEmail(dbc, email)
		switch {
		case err == nil:
			out = u
			if u.IsAdmin() {
				return nil
			}
			if err := s.users.SetRole(dbc, u.ID, types.RoleAdmin); err != nil {
				return fmt.Errorf("set role: %w", err)
			}
			u.Role = types.RoleAdmin
			promoted = true
			return nil
		case !dataerr.IsCode(err, dataerr.CodeNotFound):
			return err
		}
		if hash == "" {
			return dataerr.New(dataerr.CodeNotFound, "operators.grant_admin", "no user with that email; pass a password to create one", nil)
		}
		rows, err := s.users.Create(dbc, []*types.User{{Name: name, Email: email, Password: hash, Role: types.RoleAdmin}})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		out, created = rows[0], true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	switch {
	case created:
		s.audit.Record(ctx, types.AuditAdminAction, fmt.Sprintf("Created admin account %s", email), nil)
		s.log.Info("admin account created", "user_id", out.ID)
	case promoted:
		s.audit.Record(ctx, types.AuditAdminAction, fmt.Sprintf("Granted admin role to %s", email), nil)
		s.log.Info("admin role granted", "user_id", out.ID)
	}
	return out, created, nil
}
