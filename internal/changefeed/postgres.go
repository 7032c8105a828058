package changefeed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

// notifyConn is the part of *pgx.Conn the feed uses.
type notifyConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

func connectPgx(ctx context.Context, dsn string) (notifyConn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// PostgresFeed LISTENs on a channel over a dedicated pgx connection and
// reconnects with backoff when the connection drops. Every reconnect emits a
// resync event, since notifications sent while disconnected are gone.
type PostgresFeed struct {
	dsn     string
	channel string
	log     *logger.Logger
	out     chan Event

	connect func(ctx context.Context, dsn string) (notifyConn, error)
	wait    func(ctx context.Context, d time.Duration) bool

	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewPostgresFeed(dsn, channel string, baseLog *logger.Logger) *PostgresFeed {
	return &PostgresFeed{
		dsn:        dsn,
		channel:    channel,
		log:        baseLog.With("service", "PostgresFeed", "channel", channel),
		out:        make(chan Event, defaultBuffer),
		connect:    connectPgx,
		wait:       sleepCtx,
		minBackoff: 250 * time.Millisecond,
		maxBackoff: 15 * time.Second,
	}
}

func (f *PostgresFeed) Events() <-chan Event { return f.out }

func (f *PostgresFeed) Run(ctx context.Context) error {
	backoff := f.minBackoff
	for attempt := 1; ; attempt++ {
		resync := attempt > 1
		err := f.listen(ctx, func() {
			backoff = f.minBackoff
			if resync && !offer(f.out, ResyncEvent()) {
				f.log.Debug("change buffer full; refresh already pending")
			}
		})
		if ctx.Err() != nil {
			return nil
		}
		f.log.Warn("change feed connection lost; reconnecting", "error", err, "backoff", backoff.String())
		if !f.wait(ctx, backoff) {
			return nil
		}
		backoff *= 2
		if backoff > f.maxBackoff {
			backoff = f.maxBackoff
		}
	}
}

// listen runs one connection until it fails. onListening is called once the
// LISTEN is in place.
func (f *PostgresFeed) listen(ctx context.Context, onListening func()) error {
	conn, err := f.connect(ctx, f.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		return err
	}
	f.log.Info("listening for changes")
	onListening()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		ev, err := ParsePayload(n.Payload)
		if err != nil {
			f.log.Warn("ignoring notification", "error", err)
			continue
		}
		if !offer(f.out, ev) {
			f.log.Debug("change buffer full; refresh already pending")
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
