package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	apperrors "github.com/smartsec/portal-bff/internal/errors"
	"github.com/smartsec/portal-bff/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.TokenService = (*StubTokenService)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser ports.ExchangeResult

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: ports.ExchangeResult{
			UserID:     "mock-user-1",
			Email:      "mock.user@example.com",
			Name:       "Mock User",
			Department: "Engineering",
			Groups:     []string{"users"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	state := fmt.Sprintf("%s-%d", m.StatePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", m.NoncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultUser, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, errors.New("session not found")
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }

// StubTokenService issues predictable tokens and verifies them against an
// internal table.
type StubTokenService struct {
	IssueErr  error
	VerifyErr error

	issued map[string]domainauth.Identity
	seq    int
}

// NewStubTokenService creates an empty StubTokenService.
func NewStubTokenService() *StubTokenService {
	return &StubTokenService{issued: make(map[string]domainauth.Identity)}
}

func (s *StubTokenService) Issue(identity domainauth.Identity) (string, error) {
	if s.IssueErr != nil {
		return "", s.IssueErr
	}
	s.seq++
	token := fmt.Sprintf("stub-token-%d", s.seq)
	s.issued[token] = identity
	return token, nil
}

func (s *StubTokenService) Verify(token string) (domainauth.Identity, error) {
	if s.VerifyErr != nil {
		return domainauth.Identity{}, s.VerifyErr
	}
	identity, ok := s.issued[token]
	if !ok {
		return domainauth.Identity{}, apperrors.InvalidToken(errors.New("unknown token"))
	}
	return identity, nil
}

// StaticRoleMapper returns a fixed role for any group set.
type StaticRoleMapper struct {
	Role domainauth.Role
}

func (m StaticRoleMapper) Map([]string) domainauth.Role {
	if m.Role == "" {
		return domainauth.RoleUser
	}
	return m.Role
}
