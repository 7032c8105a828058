package bus

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

// Receivers drop envelopes whose version differs from envelopeVersion.
const envelopeVersion = 1

// envelope is the Redis wire form of a dashboard event. Data stays raw until
// the event name says which payload type to decode it into.
type envelope struct {
	Version int               `json:"v"`
	Origin  string            `json:"origin"`
	SentAt  time.Time         `json:"sent_at"`
	Channel string            `json:"channel"`
	Event   realtime.SSEEvent `json:"event"`
	Data    json.RawMessage   `json:"data,omitempty"`
}

func encode(origin string, msg realtime.SSEMessage, now time.Time) ([]byte, error) {
	if err := checkRoute(msg.Channel, msg.Event); err != nil {
		return nil, err
	}
	env := envelope{
		Version: envelopeVersion,
		Origin:  origin,
		SentAt:  now.UTC(),
		Channel: msg.Channel,
		Event:   msg.Event,
	}
	if msg.Data != nil {
		raw, err := json.Marshal(msg.Data)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msg.Event, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

func decode(payload string) (envelope, realtime.SSEMessage, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return env, realtime.SSEMessage{}, err
	}
	if env.Version != envelopeVersion {
		return env, realtime.SSEMessage{}, fmt.Errorf("unsupported envelope version %d", env.Version)
	}
	if err := checkRoute(env.Channel, env.Event); err != nil {
		return env, realtime.SSEMessage{}, err
	}
	data, err := decodeData(env.Event, env.Data)
	if err != nil {
		return env, realtime.SSEMessage{}, fmt.Errorf("decode %s payload: %w", env.Event, err)
	}
	return env, realtime.SSEMessage{Channel: env.Channel, Event: env.Event, Data: data}, nil
}

// checkRoute pins each event to the channel family it is published on.
func checkRoute(channel string, event realtime.SSEEvent) error {
	switch event {
	case realtime.SSEEventSnapshotUpdated, realtime.SSEEventCollectionChanged:
		if channel != realtime.ChannelDashboard {
			return fmt.Errorf("%s on channel %q", event, channel)
		}
	case realtime.SSEEventSessionEnded:
		if !strings.HasPrefix(channel, "session:") {
			return fmt.Errorf("%s on channel %q", event, channel)
		}
	case "":
		return fmt.Errorf("message missing event")
	default:
		return fmt.Errorf("unknown event %q", event)
	}
	return nil
}

func decodeData(event realtime.SSEEvent, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch event {
	case realtime.SSEEventSnapshotUpdated:
		var p realtime.SnapshotPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case realtime.SSEEventCollectionChanged:
		var p realtime.CollectionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p.Collection == "" {
			return nil, fmt.Errorf("collection name missing")
		}
		return p, nil
	default:
		var p map[string]string
		err := json.Unmarshal(raw, &p)
		return p, err
	}
}
