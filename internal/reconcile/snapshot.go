package reconcile

import (
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
)

// Snapshot is one published generation of the user summary collection. It
// is never modified after publication; accessors hand out copies.
type Snapshot struct {
	Generation uint64
	BuiltAt    time.Time

	users []types.UserSummary
	index map[uuid.UUID]int
}

func newSnapshot(gen uint64, users []types.UserSummary, at time.Time) *Snapshot {
	idx := make(map[uuid.UUID]int, len(users))
	for i := range users {
		idx[users[i].ID] = i
	}
	return &Snapshot{Generation: gen, BuiltAt: at, users: users, index: idx}
}

// NewSnapshot wraps a copy of users. It exists for callers that build a
// collection outside the reconciler, such as one-shot CLI runs and tests.
func NewSnapshot(gen uint64, users []types.UserSummary) *Snapshot {
	cp := make([]types.UserSummary, len(users))
	copy(cp, users)
	return newSnapshot(gen, cp, time.Now().UTC())
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.users)
}

// Users returns a copy of the collection in user-list order.
func (s *Snapshot) Users() []types.UserSummary {
	if s == nil {
		return nil
	}
	out := make([]types.UserSummary, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Snapshot) Get(id uuid.UUID) (types.UserSummary, bool) {
	if s == nil {
		return types.UserSummary{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return types.UserSummary{}, false
	}
	return s.users[i], true
}

// IDs returns the user ids in collection order.
func (s *Snapshot) IDs() []uuid.UUID {
	if s == nil {
		return nil
	}
	out := make([]uuid.UUID, len(s.users))
	for i := range s.users {
		out[i] = s.users[i].ID
	}
	return out
}
