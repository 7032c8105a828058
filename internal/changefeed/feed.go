// Package changefeed delivers change notifications for the user collection
// and the per-user documents that feed a user summary.
package changefeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Collection string
	Op         string
	UserID     uuid.UUID
	At         time.Time
}

// Feed is a source of change events. Run blocks until ctx is done; Events
// may be read before Run is called.
//
// Delivery is lossy by construction: a subscriber that re-reads the whole
// collection on every event only needs to know that something changed, so
// when the buffer is full new events are dropped.
type Feed interface {
	Events() <-chan Event
	Run(ctx context.Context) error
}

const defaultBuffer = 256

// CollectionResync marks an event that stands for changes that may have been
// missed. It carries no user id.
const CollectionResync = "resync"

func ResyncEvent() Event {
	return Event{Collection: CollectionResync, Op: "RESYNC", At: time.Now().UTC()}
}

// ParsePayload decodes "<collection>:<op>:<user id>" as emitted by the
// database triggers.
func ParsePayload(payload string) (Event, error) {
	parts := strings.SplitN(strings.TrimSpace(payload), ":", 3)
	if len(parts) != 3 {
		return Event{}, fmt.Errorf("changefeed: malformed payload %q", payload)
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return Event{}, fmt.Errorf("changefeed: bad user id in %q: %w", payload, err)
	}
	return Event{
		Collection: parts[0],
		Op:         strings.ToUpper(parts[1]),
		UserID:     id,
		At:         time.Now().UTC(),
	}, nil
}

func offer(ch chan Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
