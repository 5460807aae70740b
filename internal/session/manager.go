package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/google/uuid"
)

// Manager hands out sessions by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	seen     map[string]time.Time
	slot     kv.Slot
	now      func() time.Time
}

func NewManager(slot kv.Slot) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		seen:     make(map[string]time.Time),
		slot:     slot,
		now:      time.Now,
	}
}

// New starts a session with a fresh id.
func (m *Manager) New() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := newSession(uuid.NewString(), m.slot)
	m.track(s)
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Resolve returns the session for id. A well-formed id the manager does not
// know (e.g. after a restart) is reopened without an identity so its slot
// markers still apply; anything else gets a new session.
func (m *Manager) Resolve(id string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		m.seen[id] = m.now()
		return s, false
	}
	if parsed, err := uuid.Parse(id); err == nil {
		s = newSession(parsed.String(), m.slot)
		m.track(s)
		return s, false
	}

	s = newSession(uuid.NewString(), m.slot)
	m.track(s)
	return s, true
}

func (m *Manager) track(s *Session) {
	m.sessions[s.ID] = s
	m.seen[s.ID] = m.now()
}

// End forgets the session and removes its markers.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	delete(m.seen, id)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if err := s.ClearToken(ctx); err != nil {
		return err
	}
	return s.ClearPendingEmail(ctx)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep ends every session not resolved within idle and reports how many
// were ended.
func (m *Manager) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []string
	for id, at := range m.seen {
		if at.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, id := range stale {
		if err := m.End(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return len(stale), errors.Join(errs...)
}
