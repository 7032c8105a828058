package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// Side collection limits mirror what the admin panel has always shown.
const (
	UserScanLimit        = 100
	TasksPerUserLimit    = 50
	SessionsPerUserLimit = 100
)

type Kind string

const (
	KindTasks        Kind = "tasks"
	KindSessions     Kind = "sessions"
	KindAchievements Kind = "achievements"
	KindSubjects     Kind = "subjects"
	KindFeedback     Kind = "feedback"
	KindAuditLogs    Kind = "audit_logs"
)

var AllKinds = []Kind{KindTasks, KindSessions, KindAchievements, KindSubjects, KindFeedback, KindAuditLogs}

func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Blocking reports whether a failed load of k should be surfaced as an
// error. Subjects, feedback and audit logs degrade to empty lists.
func (k Kind) Blocking() bool {
	switch k {
	case KindTasks, KindSessions, KindAchievements:
		return true
	default:
		return false
	}
}

// Collections is an immutable set of side collections.
type Collections struct {
	Tasks        []*types.Task
	Sessions     []*types.StudySession
	Achievements []*types.Achievement
	Subjects     []*types.Subject
	Feedback     []*types.Feedback
	AuditLogs    []*types.AuditLog

	LoadedAt time.Time
	// Degraded names the non-blocking kinds that failed and are empty.
	Degraded []Kind
}

func (c *Collections) clone() *Collections {
	if c == nil {
		return &Collections{}
	}
	cp := *c
	cp.Degraded = append([]Kind(nil), c.Degraded...)
	return &cp
}

// Loader reads side collections from the store.
type Loader struct {
	repos       *repos.Set
	log         *logger.Logger
	concurrency int
}

func NewLoader(set *repos.Set, concurrency int, baseLog *logger.Logger) *Loader {
	return &Loader{repos: set, concurrency: concurrency, log: baseLog.With("service", "DashboardLoader")}
}

// Load fetches the requested kinds in parallel into a copy of prev. The
// first blocking failure is returned; non-blocking failures are recorded.
func (l *Loader) Load(ctx context.Context, prev *Collections, kinds ...Kind) (*Collections, error) {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	next := prev.clone()
	next.Degraded = removeKinds(next.Degraded, kinds)
	dbc := dbctx.Background(ctx)

	var users []*types.User
	if needsUserScan(kinds) {
		var err error
		users, err = l.repos.Users.ListPage(dbc, UserScanLimit)
		if err != nil {
			return nil, fmt.Errorf("load users for side collections: %w", err)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, k := range kinds {
		k := k
		g.Go(func() error {
			err := l.loadKind(gctx, k, users, next, &mu)
			if err == nil {
				return nil
			}
			if k.Blocking() {
				return fmt.Errorf("load %s: %w", k, err)
			}
			l.log.Warn("side collection unavailable; showing empty", "kind", string(k), "error", err)
			mu.Lock()
			next.Degraded = append(next.Degraded, k)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	next.LoadedAt = time.Now().UTC()
	return next, nil
}

func (l *Loader) loadKind(ctx context.Context, k Kind, users []*types.User, into *Collections, mu *sync.Mutex) error {
	dbc := dbctx.Background(ctx)
	switch k {
	case KindTasks:
		out, err := perUser(ctx, l.concurrency, users, func(dbc dbctx.Context, id uuid.UUID) ([]*types.Task, error) {
			return l.repos.Tasks.ListByUser(dbc, id, TasksPerUserLimit)
		})
		if err != nil {
			return err
		}
		mu.Lock()
		into.Tasks = out
		mu.Unlock()
	case KindSessions:
		out, err := perUser(ctx, l.concurrency, users, func(dbc dbctx.Context, id uuid.UUID) ([]*types.StudySession, error) {
			return l.repos.Sessions.ListByUser(dbc, id, SessionsPerUserLimit)
		})
		if err != nil {
			return err
		}
		mu.Lock()
		into.Sessions = out
		mu.Unlock()
	case KindAchievements:
		out, err := perUser(ctx, l.concurrency, users, func(dbc dbctx.Context, id uuid.UUID) ([]*types.Achievement, error) {
			return l.repos.Achievements.ListByUser(dbc, id)
		})
		if err != nil {
			return err
		}
		mu.Lock()
		into.Achievements = out
		mu.Unlock()
	case KindSubjects:
		out, err := l.repos.Subjects.List(dbc)
		mu.Lock()
		into.Subjects = orEmpty(out, err)
		mu.Unlock()
		return err
	case KindFeedback:
		out, err := l.repos.Feedback.ListNewestFirst(dbc)
		mu.Lock()
		into.Feedback = orEmpty(out, err)
		mu.Unlock()
		return err
	case KindAuditLogs:
		out, err := l.repos.AuditLogs.ListRecent(dbc, repos.DefaultAuditLimit)
		mu.Lock()
		into.AuditLogs = orEmpty(out, err)
		mu.Unlock()
		return err
	default:
		return fmt.Errorf("unknown collection %q", k)
	}
	return nil
}

// perUser runs fetch for every user and concatenates results in user order.
// The first failure cancels the fetches still running and skips the rest.
func perUser[T any](ctx context.Context, limit int, users []*types.User, fetch func(dbc dbctx.Context, id uuid.UUID) ([]T, error)) ([]T, error) {
	parts := make([][]T, len(users))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	dbc := dbctx.Background(gctx)
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := fetch(dbc, u.ID)
			if err != nil {
				return err
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []T
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func orEmpty[T any](rows []T, err error) []T {
	if err != nil || rows == nil {
		return []T{}
	}
	return rows
}

func needsUserScan(kinds []Kind) bool {
	for _, k := range kinds {
		if k == KindTasks || k == KindSessions || k == KindAchievements {
			return true
		}
	}
	return false
}

func removeKinds(in []Kind, drop []Kind) []Kind {
	out := in[:0]
	for _, k := range in {
		keep := true
		for _, d := range drop {
			if k == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, k)
		}
	}
	return out
}
