package realtime

import (
	"context"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

// Transport carries messages between API instances.
type Transport interface {
	Publish(ctx context.Context, msg SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m SSEMessage)) error
}

// Publisher delivers dashboard events to the local hub, through the transport
// when one is configured so every instance sees them.
type Publisher struct {
	hub       *SSEHub
	transport Transport
	log       *logger.Logger
}

func NewPublisher(hub *SSEHub, transport Transport, log *logger.Logger) *Publisher {
	return &Publisher{hub: hub, transport: transport, log: log.With("component", "SSEPublisher")}
}

// Start relays transport messages into the hub until ctx ends.
func (p *Publisher) Start(ctx context.Context) error {
	if p.transport == nil {
		return nil
	}
	return p.transport.StartForwarder(ctx, p.hub.Broadcast)
}

// Emit falls back to the local hub when the transport rejects the message.
func (p *Publisher) Emit(ctx context.Context, msg SSEMessage) {
	if p == nil {
		return
	}
	if p.transport != nil {
		err := p.transport.Publish(ctx, msg)
		if err == nil {
			return
		}
		p.log.Warn("SSE transport publish failed; delivering locally", "event", msg.Event, "error", err)
	}
	p.hub.Broadcast(msg)
}
