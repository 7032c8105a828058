// Package reconcile keeps an in-memory UserSummary collection consistent
// with the user store by re-enriching every user on each change batch and
// swapping the whole collection in one step.
package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/intelliplan-admin/internal/changefeed"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// ErrStale is returned by Refresh when a later generation was published
// first. The returned snapshot is the newer one.
var ErrStale = errors.New("reconcile: stale generation discarded")

type UserLister interface {
	ListAll(dbc dbctx.Context) ([]*types.User, error)
}

type Enricher interface {
	Enrich(ctx context.Context, u *types.User) types.UserSummary
}

type Options struct {
	// MaxConcurrency caps in-flight user enrichments; 0 is unlimited.
	MaxConcurrency int
	// Debounce waits this long after an event to absorb a burst.
	Debounce time.Duration
	// RetryBackoff is the first delay before Run retries a pass whose user
	// list failed. It doubles up to maxRetryBackoff. 0 means 1s.
	RetryBackoff time.Duration
}

const maxRetryBackoff = 30 * time.Second

type Reconciler struct {
	users    UserLister
	enricher Enricher
	opts     Options
	log      *logger.Logger

	current atomic.Pointer[Snapshot]
	nextGen atomic.Uint64

	subsMu sync.Mutex
	subs   map[int]func(*Snapshot)
	subSeq int

	readyOnce sync.Once
	ready     chan struct{}

	errMu   sync.Mutex
	lastErr error
}

func New(users UserLister, enricher Enricher, opts Options, baseLog *logger.Logger) *Reconciler {
	if opts.MaxConcurrency < 0 {
		opts.MaxConcurrency = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	return &Reconciler{
		users:    users,
		enricher: enricher,
		opts:     opts,
		log:      baseLog.With("service", "Reconciler"),
		subs:     make(map[int]func(*Snapshot)),
		ready:    make(chan struct{}),
	}
}

// Current returns the latest published snapshot, or nil before the first
// successful refresh.
func (r *Reconciler) Current() *Snapshot { return r.current.Load() }

// LastError returns the error of the most recent failed user list, or nil
// once a later pass listed users again.
func (r *Reconciler) LastError() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.lastErr
}

func (r *Reconciler) setLastError(err error) {
	r.errMu.Lock()
	r.lastErr = err
	r.errMu.Unlock()
}

// Ready is closed once the first snapshot is published.
func (r *Reconciler) Ready() <-chan struct{} { return r.ready }

// Subscribe registers fn to be called after every publish. fn runs on the
// publishing goroutine and must not block.
func (r *Reconciler) Subscribe(fn func(*Snapshot)) (unsubscribe func()) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	r.subSeq++
	id := r.subSeq
	r.subs[id] = fn
	return func() {
		r.subsMu.Lock()
		delete(r.subs, id)
		r.subsMu.Unlock()
	}
}

// Refresh re-enriches the entire current user set and publishes the result.
// A failure to list users leaves the published snapshot untouched.
func (r *Reconciler) Refresh(ctx context.Context) (*Snapshot, error) {
	gen := r.nextGen.Add(1)
	ctx, span := otel.Tracer("intelliplan-admin/reconcile").Start(ctx, "reconcile.refresh")
	defer span.End()
	span.SetAttributes(attribute.Int64("reconcile.generation", int64(gen)))

	started := time.Now()
	users, err := r.users.ListAll(dbctx.Background(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list users")
		r.log.Error("user list failed; keeping previous snapshot", "generation", gen, "error", err)
		observability.Current().ObserveReconcile("failed", time.Since(started), gen, 0)
		r.setLastError(err)
		return r.Current(), err
	}
	r.setLastError(nil)

	out := make([]types.UserSummary, len(users))
	var g errgroup.Group
	if r.opts.MaxConcurrency > 0 {
		g.SetLimit(r.opts.MaxConcurrency)
	}
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			out[i] = r.enricher.Enrich(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	snap := newSnapshot(gen, out, time.Now().UTC())
	span.SetAttributes(attribute.Int("reconcile.users", len(out)))
	if !r.publish(snap) {
		r.log.Debug("discarding stale snapshot", "generation", gen)
		observability.Current().ObserveReconcile("stale", time.Since(started), gen, len(out))
		return r.Current(), ErrStale
	}
	observability.Current().ObserveReconcile("published", time.Since(started), gen, len(out))
	r.log.Debug("snapshot published",
		"generation", gen,
		"users", len(out),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return snap, nil
}

// publish installs snap unless a newer generation is already current.
func (r *Reconciler) publish(snap *Snapshot) bool {
	for {
		cur := r.current.Load()
		if cur != nil && cur.Generation >= snap.Generation {
			return false
		}
		if r.current.CompareAndSwap(cur, snap) {
			break
		}
	}
	r.readyOnce.Do(func() { close(r.ready) })

	r.subsMu.Lock()
	fns := make([]func(*Snapshot), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subsMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
	return true
}

// Run performs an initial refresh, then one refresh per batch of events
// from feed until ctx is done. Events that arrive while a refresh is in
// flight are folded into the next one. A pass whose user list fails is
// retried with backoff even when no further events arrive.
func (r *Reconciler) Run(ctx context.Context, feed changefeed.Feed) error {
	retry := time.NewTimer(time.Hour)
	retry.Stop()
	defer retry.Stop()
	backoff := r.opts.RetryBackoff

	refresh := func() {
		_, err := r.Refresh(ctx)
		if err == nil || errors.Is(err, ErrStale) || ctx.Err() != nil {
			backoff = r.opts.RetryBackoff
			return
		}
		r.log.Warn("refresh failed; retrying", "error", err, "backoff", backoff.String())
		retry.Reset(backoff)
		backoff *= 2
		if backoff > maxRetryBackoff {
			backoff = maxRetryBackoff
		}
	}

	refresh()
	events := feed.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-retry.C:
			refresh()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			observability.Current().IncChangeEvent(ev.Collection, "absorbed")
			batch := 1 + r.absorb(ctx, events)
			r.log.Debug("change batch", "collection", ev.Collection, "events", batch)
			if ctx.Err() != nil {
				return nil
			}
			if !retry.Stop() {
				select {
				case <-retry.C:
				default:
				}
			}
			refresh()
		}
	}
}

// absorb drains whatever is already queued, after the debounce delay.
func (r *Reconciler) absorb(ctx context.Context, events <-chan changefeed.Event) int {
	if r.opts.Debounce > 0 {
		t := time.NewTimer(r.opts.Debounce)
		select {
		case <-ctx.Done():
			t.Stop()
			return 0
		case <-t.C:
		}
	}
	n := 0
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
