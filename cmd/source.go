package main

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/intelliplan-admin/internal/app"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/view"
)

// buildSource runs one reconcile pass and loads every side collection, the
// same state an operator sees right after opening the dashboard.
func buildSource(ctx context.Context, core *app.Core) (view.Source, error) {
	if _, err := core.Reconciler.Refresh(ctx); err != nil {
		return view.Source{}, fmt.Errorf("build user summaries: %w", err)
	}
	store := dashboard.NewStore(ctxutil.Operator{Email: "cli"}, core.Reconciler, core.Loader, core.Cfg.Location())
	defer store.Close()
	if err := store.EnsureLoaded(ctx); err != nil {
		return view.Source{}, fmt.Errorf("load dashboard collections: %w", err)
	}
	return view.SourceFromStore(store, time.Now()), nil
}
