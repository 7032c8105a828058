package realtime

import (
	"time"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventSnapshotUpdated   SSEEvent = "dashboard.snapshot"
	SSEEventCollectionChanged SSEEvent = "dashboard.collection"
	SSEEventSessionEnded      SSEEvent = "session.ended"
)

// ChannelDashboard carries changes every signed-in operator sees.
const ChannelDashboard = "dashboard"

func SessionChannel(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type SnapshotPayload struct {
	Generation uint64    `json:"generation"`
	Users      int       `json:"users"`
	BuiltAt    time.Time `json:"built_at"`
}

type CollectionPayload struct {
	Collection string     `json:"collection"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
}

func SnapshotMessage(gen uint64, users int, builtAt time.Time) SSEMessage {
	return SSEMessage{
		Channel: ChannelDashboard,
		Event:   SSEEventSnapshotUpdated,
		Data:    SnapshotPayload{Generation: gen, Users: users, BuiltAt: builtAt},
	}
}

func CollectionMessage(collection string, userID *uuid.UUID) SSEMessage {
	return SSEMessage{
		Channel: ChannelDashboard,
		Event:   SSEEventCollectionChanged,
		Data:    CollectionPayload{Collection: collection, UserID: userID},
	}
}

func SessionEndedMessage(sessionID uuid.UUID) SSEMessage {
	return SSEMessage{
		Channel: SessionChannel(sessionID),
		Event:   SSEEventSessionEnded,
		Data:    map[string]string{"session_id": sessionID.String()},
	}
}
