package application

import (
	"sync"

	"github.com/bnema/taskflow-cli/internal/domain"
)

// SessionState holds the in-memory session the HTTP client reads on each call.
type SessionState struct {
	mu      sync.RWMutex
	session domain.Session
}

func NewSessionState(initial domain.Session) *SessionState {
	return &SessionState{session: initial}
}

func (s *SessionState) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionState) Set(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
}
