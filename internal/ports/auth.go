package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// Issue encodes the identity plus issued-at and expiry into a signed token.
	Issue(identity domainauth.Identity) (string, error)

	// Verify decodes and checks signature and expiry atomically. Signature
	// mismatch, malformed payload, and expiry all fail the same way.
	Verify(token string) (domainauth.Identity, error)
}

// UserDirectory looks up stored user records for credential logins.
// Backed by Postgres in production and a seeded in-memory directory in
// development, so the credential verifier never depends on a concrete store.
type UserDirectory interface {
	// FindByEmail returns the user with exactly this email.
	// Returns ErrUserNotFound when no such user exists.
	FindByEmail(ctx context.Context, email string) (domainauth.User, error)
}

// BeginInput carries inputs for initiating a federated login flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// ExchangeResult is the outcome of a completed federated login. Groups carry
// the raw IdP group memberships; role mapping happens in the auth service.
type ExchangeResult struct {
	UserID     string
	Email      string
	Name       string
	Department string
	Groups     []string
}

// AuthProvider initiates and completes a federated login flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated user.
	Exchange(ctx context.Context, in ExchangeInput) (ExchangeResult, error)
}

// SessionStore persists and retrieves federated-login sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
