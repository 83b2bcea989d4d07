package main

import (
	"sync"

	"github.com/goliatone/go-socialauth/core"
)

// sessionStore keeps one handshake session per browser cookie.
type sessionStore struct {
	mu    sync.RWMutex
	items map[string]core.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{items: map[string]core.Session{}}
}

func (s *sessionStore) get(id string) (core.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.items[id]
	return session.Clone(), ok
}

func (s *sessionStore) put(session core.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = session.Clone()
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}
