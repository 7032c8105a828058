package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

// DivergedError means the gamification profile was written, the root
// profile mirror was not, and restoring the profile also failed. The two
// copies of the user's XP or streak now disagree until the next write.
type DivergedError struct {
	UserID        uuid.UUID
	Field         string
	MirrorErr     error
	CompensateErr error
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("%s for user %s diverged: mirror write failed (%v) and restore failed (%v)",
		e.Field, e.UserID, e.MirrorErr, e.CompensateErr)
}

func (e *DivergedError) Unwrap() []error { return []error{e.MirrorErr, e.CompensateErr} }

// ErrMirrorRolledBack means the mirror write failed and the gamification
// profile was put back, so nothing changed.
var ErrMirrorRolledBack = errors.New("profile mirror write failed; change rolled back")

type XPAdjustment struct {
	UserID uuid.UUID `json:"user_id"`
	From   int64     `json:"from"`
	To     int64     `json:"to"`
	Level  int       `json:"level"`
}

type StreakAdjustment struct {
	UserID  uuid.UUID `json:"user_id"`
	From    int       `json:"from"`
	To      int       `json:"to"`
	Longest int       `json:"longest"`
}

type OverrideService interface {
	// AdjustXP adds delta (possibly negative) to the user's XP, clamped at
	// zero, and recomputes the level.
	AdjustXP(ctx context.Context, userID uuid.UUID, delta int64) (*XPAdjustment, error)
	// SetStreak sets the current streak, clamped at zero. The longest
	// streak never decreases.
	SetStreak(ctx context.Context, userID uuid.UUID, value int) (*StreakAdjustment, error)
}

type overrideService struct {
	log    *logger.Logger
	users  repos.UserRepo
	gam    repos.GamificationRepo
	audit  AuditService
	notify ChangeNotifier
	retry  RetryPolicy
}

func NewOverrideService(log *logger.Logger, users repos.UserRepo, gam repos.GamificationRepo, audit AuditService, notify ChangeNotifier, retry RetryPolicy) OverrideService {
	return &overrideService{
		log:    log.With("service", "OverrideService"),
		users:  users,
		gam:    gam,
		audit:  audit,
		notify: orNop(notify),
		retry:  retry,
	}
}

func (s *overrideService) load(ctx context.Context, userID uuid.UUID) (*types.User, *types.GamificationProfile, error) {
	dbc := dbctx.Background(ctx)
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		if dataerr.IsCode(err, dataerr.CodeNotFound) {
			return nil, nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
		}
		return nil, nil, err
	}
	prev, err := s.gam.GetByUserID(dbc, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("read gamification profile: %w", err)
	}
	return u, prev, nil
}

func (s *overrideService) AdjustXP(ctx context.Context, userID uuid.UUID, delta int64) (*XPAdjustment, error) {
	u, prev, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	var current int64
	if prev != nil && prev.XP != nil {
		current = *prev.XP
	} else if legacy, ok := u.LegacyXP(); ok {
		current = legacy
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	level := types.LevelForXP(next)

	canonical := map[string]any{"xp": next, "level": level}
	mirror := map[string]any{"study_points": next, "xp": next, "experience": next, "level": level}
	if err := s.dualWrite(ctx, "xp", userID, prev, canonical, mirror); err != nil {
		return nil, err
	}

	adj := &XPAdjustment{UserID: userID, From: current, To: next, Level: level}
	s.audit.Record(ctx, types.AuditXPAdjusted,
		fmt.Sprintf("Admin adjusted %s's XP from %d to %d (Level %d)", displayName(u), current, next, level),
		map[string]any{"user_id": userID.String(), "from": current, "to": next, "level": level, "delta": delta})
	s.notify.UserChanged(ctx, types.CollectionGamification, userID)
	return adj, nil
}

func (s *overrideService) SetStreak(ctx context.Context, userID uuid.UUID, value int) (*StreakAdjustment, error) {
	u, prev, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, longest := 0, 0
	if u.CurrentStreak != nil {
		current = *u.CurrentStreak
	}
	if u.LongestStreak != nil {
		longest = *u.LongestStreak
	}
	if prev != nil {
		if prev.StreakDays != nil {
			current = *prev.StreakDays
		}
		if prev.LongestStreak != nil && *prev.LongestStreak > longest {
			longest = *prev.LongestStreak
		}
	}
	if current > longest {
		longest = current
	}
	next := value
	if next < 0 {
		next = 0
	}
	if next > longest {
		longest = next
	}

	canonical := map[string]any{"streak_days": next, "longest_streak": longest}
	mirror := map[string]any{"current_streak": next, "longest_streak": longest}
	if err := s.dualWrite(ctx, "streak", userID, prev, canonical, mirror); err != nil {
		return nil, err
	}

	adj := &StreakAdjustment{UserID: userID, From: current, To: next, Longest: longest}
	s.audit.Record(ctx, types.AuditStreakAdjusted,
		fmt.Sprintf("Admin adjusted %s's streak from %d to %d days", displayName(u), current, next),
		map[string]any{"user_id": userID.String(), "from": current, "to": next, "longest": longest})
	s.notify.UserChanged(ctx, types.CollectionGamification, userID)
	return adj, nil
}

// dualWrite merges canonical into the gamification profile, then mirror into
// the root profile. A failed mirror write is retried; when it still fails the
// profile is restored to prev (or removed if there was none).
func (s *overrideService) dualWrite(ctx context.Context, field string, userID uuid.UUID, prev *types.GamificationProfile, canonical, mirror map[string]any) error {
	dbc := dbctx.Background(ctx)
	if err := s.gam.MergeFields(dbc, userID, canonical); err != nil {
		observability.Current().IncOverride(field, "failed")
		return fmt.Errorf("write gamification %s: %w", field, err)
	}

	mirrorErr := s.retry.Do(ctx, func() error {
		return s.users.UpdateFields(dbc, userID, mirror)
	})
	if mirrorErr == nil {
		observability.Current().IncOverride(field, "ok")
		return nil
	}

	compErr := s.retry.Do(ctx, func() error {
		if prev == nil {
			return s.gam.Delete(dbc, userID)
		}
		return s.gam.Replace(dbc, prev)
	})
	if compErr != nil {
		div := &DivergedError{UserID: userID, Field: field, MirrorErr: mirrorErr, CompensateErr: compErr}
		observability.Current().IncOverride(field, "diverged")
		s.log.Error("gamification and profile mirror diverged", "user_id", userID, "field", field, "mirror_error", mirrorErr, "restore_error", compErr)
		return apierr.New(http.StatusInternalServerError, "mirror_diverged", div)
	}
	observability.Current().IncOverride(field, "rolled_back")
	s.log.Warn("profile mirror write failed; gamification restored", "user_id", userID, "field", field, "error", mirrorErr)
	return apierr.New(http.StatusBadGateway, "mirror_write_failed", fmt.Errorf("%w: %v", ErrMirrorRolledBack, mirrorErr))
}

func displayName(u *types.User) string {
	if u == nil || strings.TrimSpace(u.Name) == "" {
		return "Unknown"
	}
	return u.Name
}
