package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

// Manager maps operator sessions to their stores.
type Manager struct {
	source SnapshotSource
	loader *Loader
	loc    *time.Location
	log    *logger.Logger

	mu     sync.Mutex
	stores map[uuid.UUID]*Store
}

func NewManager(source SnapshotSource, loader *Loader, loc *time.Location, baseLog *logger.Logger) *Manager {
	return &Manager{
		source: source,
		loader: loader,
		loc:    loc,
		log:    baseLog.With("service", "DashboardManager"),
		stores: make(map[uuid.UUID]*Store),
	}
}

// Open returns the store for op's session, creating it on first use.
func (m *Manager) Open(op ctxutil.Operator) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[op.SessionID]; ok && !s.Closed() {
		return s
	}
	s := NewStore(op, m.source, m.loader, m.loc)
	m.stores[op.SessionID] = s
	m.log.Debug("dashboard store opened", "session_id", op.SessionID, "operator_id", op.UserID)
	return s
}

func (m *Manager) Get(sessionID uuid.UUID) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[sessionID]
	return s, ok
}

// Close tears down the session's store. Closing an unknown session is a
// no-op.
func (m *Manager) Close(sessionID uuid.UUID) {
	m.mu.Lock()
	s, ok := m.stores[sessionID]
	delete(m.stores, sessionID)
	m.mu.Unlock()
	if ok {
		s.Close()
		m.log.Debug("dashboard store closed", "session_id", sessionID)
	}
}

// Sweep closes stores idle for longer than maxIdle and returns how many.
func (m *Manager) Sweep(maxIdle time.Duration, now time.Time) int {
	m.mu.Lock()
	var stale []*Store
	for id, s := range m.stores {
		if now.Sub(s.LastUsed()) > maxIdle {
			stale = append(stale, s)
			delete(m.stores, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// ForEach calls fn for every open store.
func (m *Manager) ForEach(fn func(*Store)) {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.stores))
	for _, s := range m.stores {
		stores = append(stores, s)
	}
	m.mu.Unlock()
	for _, s := range stores {
		fn(s)
	}
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	stores := m.stores
	m.stores = make(map[uuid.UUID]*Store)
	m.mu.Unlock()
	for _, s := range stores {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
