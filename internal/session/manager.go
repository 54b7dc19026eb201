package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Session is the slice of a running session the manager routes to.
type Session interface {
	MessageID() string
	State() State
	Dispatch(ctx context.Context, ev Event) (Reaction, error)
	Stop(ctx context.Context) error
}

// Manager routes interaction events to the session bound to the interacted
// message. Each session serializes its own events; distinct sessions run
// concurrently. Terminal sessions unregister themselves.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	log      zerolog.Logger
}

func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		sessions: map[string]Session{},
		log:      log.With().Str("component", "sessions").Logger(),
	}
}

// Track registers a started session under its message id and arranges its
// removal when it ends. Sessions must be tracked after a successful Start.
func (m *Manager) Track(s Session) {
	id := s.MessageID()
	if id == "" {
		return
	}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	if c, ok := s.(interface{ setOnDone(func(string)) }); ok {
		c.setOnDone(m.remove)
	}
}

func (m *Manager) remove(messageID string) {
	m.mu.Lock()
	delete(m.sessions, messageID)
	m.mu.Unlock()
}

// Dispatch routes an event to the session on messageID. Events for unknown
// messages are dropped.
func (m *Manager) Dispatch(ctx context.Context, messageID string, ev Event) (Reaction, bool, error) {
	m.mu.RLock()
	s, ok := m.sessions[messageID]
	m.mu.RUnlock()
	if !ok {
		return Reaction{}, false, nil
	}
	rc, err := s.Dispatch(ctx, ev)
	return rc, true, err
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StopAll ends every live session, for shutdown.
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.RLock()
	open := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.RUnlock()
	for _, s := range open {
		if err := s.Stop(ctx); err != nil {
			m.log.Warn().Err(err).Str("message", s.MessageID()).Msg("stop on shutdown failed")
		}
	}
}
