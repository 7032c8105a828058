// Package dashboard owns the per-operator view state: a reference to the
// reconciler's current user snapshot plus side collections loaded on mount.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/reconcile"
)

var ErrClosed = errors.New("dashboard: store closed")

type SnapshotSource interface {
	Current() *reconcile.Snapshot
}

// Store is created when an operator first opens the dashboard and closed
// on logout. It is safe for concurrent use.
type Store struct {
	ID       uuid.UUID
	Operator ctxutil.Operator

	source SnapshotSource
	loader *Loader
	loc    *time.Location

	loadMu   sync.Mutex
	cols     atomic.Pointer[Collections]
	closed   atomic.Bool
	lastUsed atomic.Int64
}

func NewStore(op ctxutil.Operator, source SnapshotSource, loader *Loader, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	s := &Store{
		ID:       op.SessionID,
		Operator: op,
		source:   source,
		loader:   loader,
		loc:      loc,
	}
	s.touch()
	return s
}

func (s *Store) touch() { s.lastUsed.Store(time.Now().UnixNano()) }

func (s *Store) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

func (s *Store) Location() *time.Location { return s.loc }

// Loaded reports whether side collections have been loaded at least once.
func (s *Store) Loaded() bool { return s.cols.Load() != nil }

// Load (re)reads the given side collections, or all of them when none are
// named. Readers keep seeing the previous collections until it succeeds.
func (s *Store) Load(ctx context.Context, kinds ...Kind) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.touch()
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	next, err := s.loader.Load(ctx, s.cols.Load(), kinds...)
	if err != nil {
		return err
	}
	s.cols.Store(next)
	return nil
}

// EnsureLoaded loads everything on first use.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.Loaded() {
		s.touch()
		return nil
	}
	return s.Load(ctx)
}

// Snapshot is the reconciler's current user generation, possibly nil.
func (s *Store) Snapshot() *reconcile.Snapshot {
	if s.source == nil {
		return nil
	}
	return s.source.Current()
}

func (s *Store) Users() []types.UserSummary { return s.Snapshot().Users() }

// Collections never returns nil.
func (s *Store) Collections() *Collections {
	s.touch()
	if c := s.cols.Load(); c != nil {
		return c
	}
	return &Collections{}
}

func (s *Store) Inputs() aggregate.Inputs {
	c := s.Collections()
	return aggregate.Inputs{Users: s.Users(), Tasks: c.Tasks, Sessions: c.Sessions}
}

func (s *Store) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cols.Store(nil)
	}
}

func (s *Store) Closed() bool { return s.closed.Load() }
