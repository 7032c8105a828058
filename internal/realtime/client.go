package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

// SSEClient is one open event stream. SessionID is the operator session the
// stream belongs to.
type SSEClient struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	Logger    *logger.Logger
}
