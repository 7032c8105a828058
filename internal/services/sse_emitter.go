package services

import (
	"context"

	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

// SSEEmitter pushes an event to connected dashboards.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

// HubEmitter broadcasts on the local hub only. Used when no cross-instance
// transport is configured and by one-shot commands.
type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
}
