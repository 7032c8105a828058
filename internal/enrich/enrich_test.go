package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

type fakeGam struct {
	profile *types.GamificationProfile
	err     error
}

func (f fakeGam) GetByUserID(dbctx.Context, uuid.UUID) (*types.GamificationProfile, error) {
	return f.profile, f.err
}

type fakeTasks struct {
	total, completed       int64
	totalErr, completedErr error
}

func (f fakeTasks) CountByUser(dbctx.Context, uuid.UUID) (int64, error) {
	return f.total, f.totalErr
}

func (f fakeTasks) CountCompletedByUser(dbctx.Context, uuid.UUID) (int64, error) {
	return f.completed, f.completedErr
}

func i64(v int64) *int64 { return &v }
func iptr(v int) *int    { return &v }

func TestEnrichPrefersGamificationProfile(t *testing.T) {
	u := &types.User{ID: uuid.New(), Name: "Ada", XP: i64(10), CurrentStreak: iptr(2)}
	gp := &types.GamificationProfile{XP: i64(2500), Level: iptr(3), StreakDays: iptr(9), StudyPoints: i64(40)}
	e := New(fakeGam{profile: gp}, fakeTasks{total: 5, completed: 3}, logger.Nop())

	got := e.Enrich(context.Background(), u)
	want := types.UserSummary{
		ID: u.ID, Name: "Ada",
		XP: 2500, Level: 3, Streak: 9, LongestStreak: 9, StudyPoints: 40,
		TasksCompleted: 3, TotalTasks: 5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Enrich mismatch (-want +got):\n%s", diff)
	}
}

func TestEnrichFallsBackToRootFields(t *testing.T) {
	u := &types.User{
		ID:            uuid.New(),
		Experience:    i64(1200),
		XP:            i64(7),
		CurrentStreak: iptr(4),
		LongestStreak: iptr(12),
	}
	e := New(fakeGam{}, fakeTasks{}, logger.Nop())

	got := e.Enrich(context.Background(), u)
	if got.XP != 1200 {
		t.Fatalf("xp: want=1200 got=%d", got.XP)
	}
	if got.Level != 2 {
		t.Fatalf("level derived from xp: want=2 got=%d", got.Level)
	}
	if got.Streak != 4 || got.LongestStreak != 12 {
		t.Fatalf("streak: want=4/12 got=%d/%d", got.Streak, got.LongestStreak)
	}
	if len(got.Degraded) != 0 {
		t.Fatalf("absent profile is not a failure: %v", got.Degraded)
	}
}

func TestStoredZeroOnProfileBeatsRootField(t *testing.T) {
	u := &types.User{ID: uuid.New(), XP: i64(500), CurrentStreak: iptr(6), LongestStreak: iptr(6), Level: iptr(4)}
	gp := &types.GamificationProfile{XP: i64(0), StreakDays: iptr(0), Level: iptr(1)}

	got := Merge(u, gp)
	if got.XP != 0 {
		t.Fatalf("xp: want=0 got=%d", got.XP)
	}
	if got.Level != 1 {
		t.Fatalf("level: want=1 got=%d", got.Level)
	}
	if got.Streak != 0 {
		t.Fatalf("streak: want=0 got=%d", got.Streak)
	}
	if got.LongestStreak != 6 {
		t.Fatalf("longest streak falls back to root when the profile has none: want=6 got=%d", got.LongestStreak)
	}

	// A profile row without the xp column still falls back.
	got = Merge(u, &types.GamificationProfile{StreakDays: iptr(2)})
	if got.XP != 500 {
		t.Fatalf("xp with absent profile value: want=500 got=%d", got.XP)
	}
}

func TestEnrichLookupsFailIndependently(t *testing.T) {
	u := &types.User{ID: uuid.New(), StudyPoints: i64(55)}
	boom := errors.New("unavailable")
	e := New(
		fakeGam{err: boom},
		fakeTasks{total: 8, completedErr: boom},
		logger.Nop(),
	)

	got := e.Enrich(context.Background(), u)
	if got.TotalTasks != 8 {
		t.Fatalf("total tasks must survive other failures: got %d", got.TotalTasks)
	}
	if got.TasksCompleted != 0 {
		t.Fatalf("failed count must default to 0: got %d", got.TasksCompleted)
	}
	if got.XP != 55 {
		t.Fatalf("xp must fall back to root study points: got %d", got.XP)
	}
	if diff := cmp.Diff([]string{LookupGamification, LookupCompleted}, got.Degraded); diff != "" {
		t.Fatalf("degraded (-want +got):\n%s", diff)
	}
}

func TestMergeZeroUser(t *testing.T) {
	got := Merge(&types.User{}, nil)
	if got.XP != 0 || got.Streak != 0 || got.Level != 1 {
		t.Fatalf("zero user: want xp=0 streak=0 level=1 got %+v", got)
	}
}
