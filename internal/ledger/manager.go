package ledger

import (
	"context"
	"sync"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
)

// Manager holds the open ledger sessions, one per user. Sessions are created
// on first use and live until Close or CloseAll, tying the session lifecycle
// to login/logout instead of ambient global state.
type Manager struct {
	mu       sync.Mutex
	gateway  storage.Gateway
	events   EventPublisher
	sessions map[string]*Session
}

func NewManager(gateway storage.Gateway, events EventPublisher) *Manager {
	return &Manager{
		gateway:  gateway,
		events:   events,
		sessions: make(map[string]*Session),
	}
}

// Open returns the user's session, hydrating it from the gateway on first
// access.
func (m *Manager) Open(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	// Hydration does gateway I/O; keep it outside the manager lock. A
	// racing Open for the same user keeps the first stored session.
	s, err := Open(ctx, userID, m.gateway, m.events)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[userID]; ok {
		return existing, nil
	}
	m.sessions[userID] = s
	return s, nil
}

// Close discards the user's in-memory session. Durable state is untouched.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// CloseAll discards every open session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
}
