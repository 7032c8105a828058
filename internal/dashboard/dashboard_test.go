package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	"github.com/yungbote/intelliplan-admin/internal/data/repos/testutil"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/reconcile"
)

type fixedSource struct{ snap *reconcile.Snapshot }

func (f fixedSource) Current() *reconcile.Snapshot { return f.snap }

func newOperator() ctxutil.Operator {
	return ctxutil.Operator{UserID: uuid.New(), Email: "ops@example.com", SessionID: uuid.New()}
}

func TestStoreLoadsSideCollections(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)

	u1 := testutil.SeedUser(t, ctx, db, "one@example.com")
	u2 := testutil.SeedUser(t, ctx, db, "two@example.com")
	testutil.SeedTask(t, ctx, db, u1.ID, types.TaskStatusCompleted, "Math")
	testutil.SeedTask(t, ctx, db, u2.ID, "", "Bio")
	testutil.SeedSession(t, ctx, db, u1.ID, "pomodoro", 25)
	if _, err := set.Subjects.Create(dbctx.Background(ctx), &types.Subject{Code: "M1", Name: "Math"}); err != nil {
		t.Fatalf("seed subject: %v", err)
	}

	s := NewStore(newOperator(), fixedSource{}, NewLoader(set, 4, log), time.UTC)
	if err := s.EnsureLoaded(ctx); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	c := s.Collections()
	if len(c.Tasks) != 2 || len(c.Sessions) != 1 || len(c.Subjects) != 1 {
		t.Fatalf("unexpected collections: tasks=%d sessions=%d subjects=%d", len(c.Tasks), len(c.Sessions), len(c.Subjects))
	}
	if len(c.Degraded) != 0 {
		t.Fatalf("nothing should be degraded: %v", c.Degraded)
	}
}

func TestNonBlockingFailureDegradesToEmpty(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	if err := db.Migrator().DropTable(&types.Feedback{}); err != nil {
		t.Fatalf("drop feedback: %v", err)
	}

	s := NewStore(newOperator(), fixedSource{}, NewLoader(set, 0, log), time.UTC)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load must not fail on feedback: %v", err)
	}
	c := s.Collections()
	if c.Feedback == nil || len(c.Feedback) != 0 {
		t.Fatalf("feedback: want empty list, got %v", c.Feedback)
	}
	if len(c.Degraded) != 1 || c.Degraded[0] != KindFeedback {
		t.Fatalf("degraded: want [feedback], got %v", c.Degraded)
	}
}

func TestBlockingFailureKeepsPreviousCollections(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	u := testutil.SeedUser(t, ctx, db, "x@example.com")
	testutil.SeedTask(t, ctx, db, u.ID, "", "Bio")

	s := NewStore(newOperator(), fixedSource{}, NewLoader(set, 0, log), time.UTC)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := db.Migrator().DropTable(&types.Task{}); err != nil {
		t.Fatalf("drop tasks: %v", err)
	}
	if err := s.Load(ctx, KindTasks); err == nil {
		t.Fatalf("expected blocking error for tasks")
	}
	if got := len(s.Collections().Tasks); got != 1 {
		t.Fatalf("previous tasks must survive a failed reload: got %d", got)
	}
}

func TestPerUserFailureCancelsSiblings(t *testing.T) {
	users := []*types.User{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}
	boom := errors.New("tasks unavailable")

	done := make(chan error, 1)
	go func() {
		_, err := perUser(context.Background(), 0, users, func(dbc dbctx.Context, id uuid.UUID) ([]int, error) {
			if id == users[0].ID {
				return nil, boom
			}
			<-dbc.Ctx.Done()
			return nil, dbc.Ctx.Err()
		})
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("perUser: want=%v got=%v", boom, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sibling fetches were not cancelled")
	}
}

func TestPerUserSkipsFetchesAfterFailure(t *testing.T) {
	users := []*types.User{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}
	var calls atomic.Int32
	_, err := perUser(context.Background(), 1, users, func(dbctx.Context, uuid.UUID) ([]int, error) {
		calls.Add(1)
		return nil, errors.New("down")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("fetches after the first failure: want=1 call got=%d", n)
	}
}

func TestStoreFeedsAggregation(t *testing.T) {
	now := time.Now()
	snap := reconcile.NewSnapshot(1, []types.UserSummary{
		{ID: uuid.New(), LastActive: &now},
		{ID: uuid.New()},
	})
	s := NewStore(newOperator(), fixedSource{snap: snap}, nil, time.Local)
	o := aggregate.ComputeOverview(s.Inputs(), now, s.Location(), aggregate.DefaultThresholds())
	if o.TotalUsers != 2 || o.ActiveToday != 1 {
		t.Fatalf("overview: want 2/1, got %d/%d", o.TotalUsers, o.ActiveToday)
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(fixedSource{}, nil, time.UTC, testutil.Logger(t))
	op := newOperator()
	s := m.Open(op)
	if again := m.Open(op); again != s {
		t.Fatalf("Open must reuse the session store")
	}
	m.Close(op.SessionID)
	if !s.Closed() {
		t.Fatalf("Close must tear the store down")
	}
	if _, ok := m.Get(op.SessionID); ok {
		t.Fatalf("closed store must be forgotten")
	}
	if err := s.Load(context.Background()); err != ErrClosed {
		t.Fatalf("Load after close: want ErrClosed, got %v", err)
	}

	idle := m.Open(newOperator())
	if n := m.Sweep(time.Minute, time.Now().Add(2*time.Minute)); n != 1 {
		t.Fatalf("Sweep: want 1, got %d", n)
	}
	if !idle.Closed() || m.Len() != 0 {
		t.Fatalf("Sweep must close idle stores")
	}
}
