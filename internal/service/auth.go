// Package service orchestrates authentication flows on top of the ports.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartsec/portal-bff/internal/data"
	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	apperrors "github.com/smartsec/portal-bff/internal/errors"
	"github.com/smartsec/portal-bff/internal/http/validation"
	"github.com/smartsec/portal-bff/internal/ports"
)

// dummyPasswordHash is compared against when the email is unknown so that
// lookups take the same time whether or not the account exists.
// bcrypt hash of an unguessable random string.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// minPasswordLength is the shortest password accepted at login.
const minPasswordLength = 6

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      ports.UserDirectory
	Tokens     ports.TokenService
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	SessionTTL time.Duration
}

// AuthService handles both credential logins and federated flows. Credential
// logins verify against the user directory and issue a bearer token directly.
// Federated flows run through the configured provider and additionally
// persist a session for the cookie-based callback leg.
type AuthService struct {
	users      ports.UserDirectory
	tokens     ports.TokenService
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	sessionTTL time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		users:      opts.Users,
		tokens:     opts.Tokens,
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		sessionTTL: ttl,
	}
}

// LoginInput carries the credential login request.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the issued token and the authenticated identity.
type LoginResult struct {
	Token    string
	Identity domainauth.Identity
}

// Login verifies credentials and issues a bearer token.
// Input validation runs before any directory lookup so malformed requests
// never touch the store. Unknown emails and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if details := validateLoginInput(in); len(details) > 0 {
		return nil, apperrors.ValidationFields(details...)
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			// Burn a bcrypt comparison so the miss costs as much as a hit.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(in.Password))
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internalf("look up user: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	identity := user.Identity()
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, apperrors.Internalf("issue token: %v", err)
	}

	return &LoginResult{Token: token, Identity: identity}, nil
}

var (
	emailValidator    = validation.Email("email")
	passwordValidator = validation.MinLen("Password", minPasswordLength)
)

func validateLoginInput(in LoginInput) []apperrors.FieldError {
	var details []apperrors.FieldError
	if msg := emailValidator(in.Email); msg != "" {
		details = append(details, apperrors.FieldError{Field: "email", Message: msg})
	}
	if msg := passwordValidator(in.Password); msg != "" {
		details = append(details, apperrors.FieldError{Field: "password", Message: msg})
	}
	return details
}

// BeginLoginResult contains the result of beginning a federated login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a federated flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a federated login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the issued token, identity, and persisted session.
type CompleteLoginResult struct {
	Token    string
	Identity domainauth.Identity
	Session  domainauth.Session
}

// CompleteLogin exchanges the authorization code for an identity, maps the
// provider groups to a role, persists a session, and issues a bearer token.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	res, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	identity := domainauth.Identity{
		ID:            res.UserID,
		Email:         res.Email,
		Name:          res.Name,
		Role:          s.roles.Map(res.Groups),
		Department:    res.Department,
		OAuthProvider: "oidc",
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, apperrors.Internalf("issue token: %v", err)
	}

	return &CompleteLoginResult{Token: token, Identity: identity, Session: session}, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, errors.New("session expired")
	}
	return &session, nil
}

// Logout removes the session. Bearer tokens stay valid until expiry; logout
// only ends the cookie-flow session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID returns a random, unguessable session identifier.
func generateSessionID() string {
	return uuid.NewString()
}
