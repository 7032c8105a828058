// Package enrich merges a user document with its gamification profile and
// task counts into a UserSummary.
package enrich

import (
	"context"
	"sync"

	"github.com/google/uuid"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

const (
	LookupGamification = "gamification"
	LookupCompleted    = "tasks_completed"
	LookupTotal        = "tasks_total"
)

type GamificationSource interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.GamificationProfile, error)
}

type TaskCounter interface {
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type Enricher struct {
	gam   GamificationSource
	tasks TaskCounter
	log   *logger.Logger
}

func New(gam GamificationSource, tasks TaskCounter, baseLog *logger.Logger) *Enricher {
	return &Enricher{gam: gam, tasks: tasks, log: baseLog.With("service", "Enricher")}
}

// Enrich never fails. Each of the three lookups runs independently and a
// failed lookup leaves its fields at the root-document fallback or zero; the
// failure is recorded in Degraded.
func (e *Enricher) Enrich(ctx context.Context, u *types.User) types.UserSummary {
	var (
		mu        sync.Mutex
		profile   *types.GamificationProfile
		completed int64
		total     int64
		degraded  []string
	)
	fail := func(lookup string, err error) {
		e.log.Warn("enrichment lookup failed", "lookup", lookup, "user_id", u.ID, "error", err)
		observability.Current().IncDegraded(lookup)
		mu.Lock()
		degraded = append(degraded, lookup)
		mu.Unlock()
	}
	dbc := dbctx.Background(ctx)

	var g errgroup.Group
	g.Go(func() error {
		gp, err := e.gam.GetByUserID(dbc, u.ID)
		if err != nil {
			fail(LookupGamification, err)
			return nil
		}
		profile = gp
		return nil
	})
	g.Go(func() error {
		n, err := e.tasks.CountCompletedByUser(dbc, u.ID)
		if err != nil {
			fail(LookupCompleted, err)
			return nil
		}
		completed = n
		return nil
	})
	g.Go(func() error {
		n, err := e.tasks.CountByUser(dbc, u.ID)
		if err != nil {
			fail(LookupTotal, err)
			return nil
		}
		total = n
		return nil
	})
	_ = g.Wait()

	s := Merge(u, profile)
	s.TasksCompleted = completed
	s.TotalTasks = total
	s.Degraded = sortedLookups(degraded)
	return s
}

// Merge applies gamification > root legacy field > zero to every counter.
// A counter stored on the profile wins even when it is 0; only an absent one
// falls back. profile may be nil.
func Merge(u *types.User, profile *types.GamificationProfile) types.UserSummary {
	s := types.UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		LastActive: u.LastActive,
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		s.CreatedAt = &created
	}
	if u.TotalPointsEarned != nil {
		s.TotalPointsEarned = *u.TotalPointsEarned
	}

	legacyXP, _ := u.LegacyXP()
	if profile == nil {
		profile = &types.GamificationProfile{}
	}

	s.XP = firstInt64(profile.XP, legacyXP)
	s.StudyPoints = firstInt64(profile.StudyPoints, deref64(u.StudyPoints))
	s.Level = firstInt(profile.Level, derefInt(u.Level))
	if s.Level == 0 {
		s.Level = types.LevelForXP(s.XP)
	}
	s.Streak = firstInt(profile.StreakDays, derefInt(u.CurrentStreak))
	s.LongestStreak = firstInt(profile.LongestStreak, derefInt(u.LongestStreak))
	if s.Streak > s.LongestStreak {
		s.LongestStreak = s.Streak
	}
	return s
}

func firstInt64(canonical *int64, fallback int64) int64 {
	if canonical != nil {
		return *canonical
	}
	return fallback
}

func firstInt(canonical *int, fallback int) int {
	if canonical != nil {
		return *canonical
	}
	return fallback
}

func deref64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func sortedLookups(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, name := range []string{LookupGamification, LookupCompleted, LookupTotal} {
		for _, got := range in {
			if got == name {
				out = append(out, name)
				break
			}
		}
	}
	return out
}
