// Package localstore keeps the session on this machine: in memory or in
// a per-profile file.
package localstore

import (
	"context"
	"sync"

	"github.com/digitallog/console/internal/core/domain"
)

// MemoryStore is a process-local session store.
type MemoryStore struct {
	mu      sync.RWMutex
	session domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.session)
}

func (s *MemoryStore) Save(_ context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = copySession(session)
	return nil
}

func (s *MemoryStore) SetAccessToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = token
	return nil
}

func (s *MemoryStore) SetUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.User = &user
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
	return nil
}

// snapshot returns a copy of session, or ErrNoSession when it is empty.
func snapshot(session domain.Session) (*domain.Session, error) {
	if session.AccessToken == "" && session.User == nil {
		return nil, domain.ErrNoSession
	}
	out := copySession(session)
	return &out, nil
}

func copySession(session domain.Session) domain.Session {
	if session.User != nil {
		u := *session.User
		session.User = &u
	}
	return session
}
