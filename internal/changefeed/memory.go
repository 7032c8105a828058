package changefeed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MemoryFeed is fed by Publish. It backs tests and the sqlite mode, where
// the write services publish after each committed change.
type MemoryFeed struct {
	out chan Event
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{out: make(chan Event, defaultBuffer)}
}

func (f *MemoryFeed) Events() <-chan Event { return f.out }

func (f *MemoryFeed) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Publish reports whether the event was buffered.
func (f *MemoryFeed) Publish(collection, op string, userID uuid.UUID) bool {
	return offer(f.out, Event{Collection: collection, Op: op, UserID: userID, At: time.Now().UTC()})
}
