package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/reconcile"
)

// UserProfile is a live read of one student, bypassing the held snapshot.
type UserProfile struct {
	Summary           types.UserSummary          `json:"summary"`
	Gamification      *types.GamificationProfile `json:"gamification,omitempty"`
	RecentTasks       []*types.Task              `json:"recent_tasks"`
	SessionCount      int                        `json:"session_count"`
	TotalStudyMinutes float64                    `json:"total_study_minutes"`
	Techniques        aggregate.TechniqueCounts  `json:"techniques"`
	Achievements      []*types.Achievement       `json:"achievements"`
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

type profileService struct {
	log      *logger.Logger
	repos    *repos.Set
	enricher reconcile.Enricher
}

func NewProfileService(log *logger.Logger, set *repos.Set, enricher reconcile.Enricher) ProfileService {
	return &profileService{log: log.With("service", "ProfileService"), repos: set, enricher: enricher}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	dbc := dbctx.Background(ctx)
	u, err := s.repos.Users.GetByID(dbc, userID)
	if err != nil {
		if dataerr.IsCode(err, dataerr.CodeNotFound) {
			return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s not found", userID))
		}
		return nil, err
	}

	out := &UserProfile{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Summary = s.enricher.Enrich(gctx, u)
		return nil
	})
	g.Go(func() error {
		gp, err := s.repos.Gamification.GetByUserID(dbctx.Background(gctx), userID)
		if err != nil {
			s.log.Warn("profile gamification lookup failed", "user_id", userID, "error", err)
			return nil
		}
		out.Gamification = gp
		return nil
	})
	g.Go(func() error {
		tasks, err := s.repos.Tasks.ListByUser(dbctx.Background(gctx), userID, dashboard.TasksPerUserLimit)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		out.RecentTasks = tasks
		return nil
	})
	g.Go(func() error {
		sessions, err := s.repos.Sessions.ListByUser(dbctx.Background(gctx), userID, dashboard.SessionsPerUserLimit)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		out.SessionCount = len(sessions)
		out.TotalStudyMinutes = aggregate.TotalStudyMinutes(sessions)
		out.Techniques = aggregate.CountTechniques(sessions)
		return nil
	})
	g.Go(func() error {
		items, err := s.repos.Achievements.ListByUser(dbctx.Background(gctx), userID)
		if err != nil {
			return fmt.Errorf("load achievements: %w", err)
		}
		sortNewestUnlocked(items)
		out.Achievements = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.RecentTasks == nil {
		out.RecentTasks = []*types.Task{}
	}
	if out.Achievements == nil {
		out.Achievements = []*types.Achievement{}
	}
	return out, nil
}

// sortNewestUnlocked orders by unlock time descending; undated items sink.
func sortNewestUnlocked(items []*types.Achievement) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Unlocked(), items[j].Unlocked()
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
