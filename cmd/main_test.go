package main

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/intelliplan-admin/internal/app"
	"github.com/yungbote/intelliplan-admin/internal/data/repos/testutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/config"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "snapshot": false, "export": false, "grant-admin": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
	if f := grantAdminCmd.Flags().Lookup("email"); f == nil {
		t.Fatal("grant-admin: missing --email flag")
	}
}

func TestBuildSourceLoadsEverything(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	u := testutil.SeedUser(t, ctx, gdb, "student@example.com")
	testutil.SeedTask(t, ctx, gdb, u.ID, "completed", "Math")
	testutil.SeedSession(t, ctx, gdb, u.ID, "pomodoro", 25)

	core, err := app.NewCoreWithDB(config.Config{Timezone: "UTC", ChangeFeed: config.ChangeFeedMemory}, testutil.Logger(t), gdb)
	if err != nil {
		t.Fatalf("NewCoreWithDB: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	src, err := buildSource(ctx, core)
	if err != nil {
		t.Fatalf("buildSource: %v", err)
	}
	if len(src.Users) != 1 || len(src.Tasks) != 1 || len(src.Sessions) != 1 {
		t.Fatalf("source: users=%d tasks=%d sessions=%d", len(src.Users), len(src.Tasks), len(src.Sessions))
	}
	if src.Generation == 0 {
		t.Fatal("source: generation not set")
	}
}
