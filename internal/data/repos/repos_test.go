package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos/testutil"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.User{{Name: "Ada", Email: "Ada@Example.com"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}

	got, err := repo.GetByEmail(dbc, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created[0].ID {
		t.Fatalf("GetByEmail: want=%s got=%s", created[0].ID, got.ID)
	}

	if err := repo.SetRole(dbc, got.ID, types.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	got, err = repo.GetByID(dbc, got.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsAdmin() {
		t.Fatalf("SetRole: expected admin, got %q", got.Role)
	}

	err = repo.UpdateFields(dbc, uuid.New(), map[string]any{"xp": 1})
	if !dataerr.IsCode(err, dataerr.CodeNotFound) {
		t.Fatalf("UpdateFields missing row: want not_found, got %v", err)
	}

	all, err := repo.ListAll(dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListAll: want=1 got=%d", len(all))
	}
}

func TestGamificationRepoMergeCreatesThenUpdates(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Background(ctx)
	u := testutil.SeedUser(t, ctx, db, "g@example.com")

	repo := NewGamificationRepo(db, testutil.Logger(t))
	gp, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || gp != nil {
		t.Fatalf("GetByUserID absent: want nil,nil got %v,%v", gp, err)
	}

	if err := repo.MergeFields(dbc, u.ID, map[string]any{"xp": int64(1500), "level": 2}); err != nil {
		t.Fatalf("MergeFields create: %v", err)
	}
	if err := repo.MergeFields(dbc, u.ID, map[string]any{"streak_days": 4}); err != nil {
		t.Fatalf("MergeFields update: %v", err)
	}
	gp, err = repo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if gp.XP == nil || *gp.XP != 1500 {
		t.Fatalf("merge must keep xp: got %v", gp.XP)
	}
	if gp.StreakDays == nil || *gp.StreakDays != 4 {
		t.Fatalf("merge must set streak: got %v", gp.StreakDays)
	}
}

func TestTaskRepoCounts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Background(ctx)
	u := testutil.SeedUser(t, ctx, db, "t@example.com")
	testutil.SeedTask(t, ctx, db, u.ID, types.TaskStatusCompleted, "Math")
	testutil.SeedTask(t, ctx, db, u.ID, types.TaskStatusCompleted, "Math")
	testutil.SeedTask(t, ctx, db, u.ID, "", "Bio")

	repo := NewTaskRepo(db, testutil.Logger(t))
	total, err := repo.CountByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	done, err := repo.CountCompletedByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("CountCompletedByUser: %v", err)
	}
	if total != 3 || done != 2 {
		t.Fatalf("counts: want=3/2 got=%d/%d", total, done)
	}
	limited, err := repo.ListByUser(dbc, u.ID, 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("ListByUser limit: want=2 got=%d", len(limited))
	}
}

func TestSubjectRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Background(context.Background())
	repo := NewSubjectRepo(db, testutil.Logger(t))

	s := &types.Subject{Code: "CS101", Name: "Intro"}
	s.ApplyDefaults()
	if _, err := repo.Create(dbc, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateFields(dbc, s.ID, map[string]any{"name": "Intro to CS"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Intro to CS" || got.Color != types.DefaultSubjectColor {
		t.Fatalf("unexpected subject: %+v", got)
	}
	if err := repo.Delete(dbc, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(dbc, s.ID); !dataerr.IsCode(err, dataerr.CodeNotFound) {
		t.Fatalf("Delete twice: want not_found, got %v", err)
	}
}

func TestAuditLogRepoNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Background(context.Background())
	repo := NewAuditLogRepo(db, testutil.Logger(t))

	for _, typ := range []string{types.AuditSubjectCreated, types.AuditXPAdjusted} {
		if err := repo.Append(dbc, &types.AuditLog{Type: typ, Message: typ}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	out, err := repo.ListRecent(dbc, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("ListRecent: want=2 got=%d", len(out))
	}
	if out[0].Timestamp.Before(out[1].Timestamp) {
		t.Fatalf("ListRecent: want newest first")
	}
}
