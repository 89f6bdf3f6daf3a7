// Package token implements bearer token issuance and verification using
// HMAC-signed JWTs.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/smartsec/portal-bff/internal/errors"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// claims carries the identity payload inside issued tokens.
type claims struct {
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role"`
	Department    string `json:"department,omitempty"`
	OAuthProvider string `json:"oauth_provider,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256-signed tokens.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewService creates a token service signing with secret. Tokens expire
// after lifetime.
func NewService(secret string, lifetime time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Issue encodes the identity into a signed token with issued-at and expiry.
func (s *Service) Issue(identity domainauth.Identity) (string, error) {
	now := s.now()
	c := claims{
		Email:         identity.Email,
		Name:          identity.Name,
		Role:          string(identity.Role),
		Department:    identity.Department,
		OAuthProvider: identity.OAuthProvider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Any failure (bad signature, malformed token, expiry) yields the same
// invalid-token error so callers cannot distinguish why a token was
// rejected.
func (s *Service) Verify(tokenStr string) (domainauth.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domainauth.Identity{}, apperrors.InvalidToken(err)
	}

	return domainauth.Identity{
		ID:            c.Subject,
		Email:         c.Email,
		Name:          c.Name,
		Role:          domainauth.Role(c.Role),
		Department:    c.Department,
		OAuthProvider: c.OAuthProvider,
	}, nil
}
