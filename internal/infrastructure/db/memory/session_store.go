// Package memory keeps session stores in process memory. Sessions do not
// survive a restart; use it for local development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
)

// SessionStores holds every client instance's session behind one mutex.
type SessionStores struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStores() *SessionStores {
	return &SessionStores{sessions: make(map[string]domain.Session)}
}

// ForClient satisfies ports.SessionStoreProvider.
func (p *SessionStores) ForClient(clientID string) ports.SessionStore {
	return &SessionStore{parent: p, clientID: clientID}
}

// SessionStore is one client's view of SessionStores.
type SessionStore struct {
	parent   *SessionStores
	clientID string
}

func (s *SessionStore) Save(_ context.Context, token string, user domain.UserProfile) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.sessions[s.clientID] = domain.Session{Token: token, User: user}
	return nil
}

func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.parent.mu.RLock()
	defer s.parent.mu.RUnlock()
	session, ok := s.parent.sessions[s.clientID]
	if !ok || !session.Valid() {
		return nil, nil
	}
	return &session, nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	delete(s.parent.sessions, s.clientID)
	return nil
}
