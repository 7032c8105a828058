package bus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

const DefaultChannel = "intelliplan-admin:sse"

// redisTransport fans dashboard events out over one Redis pub/sub channel.
// Every instance, the publisher included, receives its own messages back and
// delivers them to its local hub.
type redisTransport struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	origin  string
	now     func() time.Time
}

// NewRedisBus connects to addr and pings it. An empty channel falls back to
// DefaultChannel.
func NewRedisBus(log *logger.Logger, addr, channel string) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: 5 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	origin := uuid.NewString()
	return &redisTransport{
		log:     log.With("service", "RedisSSEBus", "channel", channel, "origin", origin),
		rdb:     rdb,
		channel: channel,
		origin:  origin,
		now:     time.Now,
	}, nil
}

func (t *redisTransport) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if t == nil || t.rdb == nil {
		return fmt.Errorf("redis SSE bus not initialized")
	}
	raw, err := encode(t.origin, msg, t.now())
	if err != nil {
		return err
	}
	return t.rdb.Publish(ctx, t.channel, raw).Err()
}

func (t *redisTransport) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if t == nil || t.rdb == nil {
		return fmt.Errorf("redis SSE bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := t.rdb.Subscribe(ctx, t.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go t.forward(ctx, sub.Channel(), onMsg, sub.Close)
	return nil
}

func (t *redisTransport) forward(ctx context.Context, in <-chan *goredis.Message, onMsg func(realtime.SSEMessage), closeSub func() error) {
	defer func() { _ = closeSub() }()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok || m == nil {
				return
			}
			env, msg, err := decode(m.Payload)
			if err != nil {
				t.log.Warn("dropping redis SSE payload", "from", env.Origin, "error", err)
				continue
			}
			if lag := t.now().Sub(env.SentAt); env.Origin != t.origin && lag > 5*time.Second {
				t.log.Debug("late redis SSE message", "event", msg.Event, "from", env.Origin, "lag", lag)
			}
			onMsg(msg)
		}
	}
}

func (t *redisTransport) Close() error {
	if t == nil || t.rdb == nil {
		return nil
	}
	return t.rdb.Close()
}
