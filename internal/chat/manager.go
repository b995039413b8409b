package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/pkg/util"
)

// Manager tracks open chat sessions for the HTTP layer and sweeps idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	gateway    Gateway
	resetDelay time.Duration
	ttl        time.Duration
	logger     *zap.Logger
}

// NewManager constructs a session manager.
func NewManager(gateway Gateway, resetDelay, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		gateway:    gateway,
		resetDelay: resetDelay,
		ttl:        ttl,
		logger:     logger,
	}
}

// Open creates a new session in the greeting state.
func (m *Manager) Open(language string) *Session {
	session := NewSession(m.gateway, language, m.resetDelay)
	m.mu.Lock()
	m.sweepLocked()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	m.logger.Debug("chat session opened", zap.String("session_id", session.ID))
	return session
}

// Get returns an open session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, util.NewNotFound("chat session", map[string]any{"session_id": id})
	}
	return session, nil
}

// Close tears down a session, cancelling any pending auto-reset.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return util.NewNotFound("chat session", map[string]any{"session_id": id})
	}
	session.Close()
	m.logger.Debug("chat session closed", zap.String("session_id", id))
	return nil
}

func (m *Manager) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.ttl)
	for id, session := range m.sessions {
		if session.LastActive().Before(cutoff) {
			session.Close()
			delete(m.sessions, id)
		}
	}
}
