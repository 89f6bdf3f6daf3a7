// Package memstore provides an in-memory session store for development.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smartsec/portal-bff/internal/adapters/redis"
	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// SessionStore keeps sessions in process memory. Expired sessions are
// evicted lazily on read. Not for production: sessions vanish on restart
// and are invisible to other instances.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(time.Now()) {
		return errors.New("session is expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, redis.ErrNotFound
	}
	if sess.Expired(time.Now()) {
		delete(s.sessions, id)
		return domainauth.Session{}, redis.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
