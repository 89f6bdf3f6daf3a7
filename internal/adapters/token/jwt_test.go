package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/smartsec/portal-bff/internal/errors"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

func TestService_IssueVerifyRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	identity := domainauth.Identity{
		ID:            "user-1",
		Email:         "analyst@smartsec.com",
		Name:          "Ana Lyst",
		Role:          domainauth.RoleAnalyst,
		Department:    "Security",
		OAuthProvider: "okta",
	}

	tok, err := svc.Issue(identity)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestService_VerifyExpiredToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	tok, err := svc.Issue(domainauth.Identity{ID: "user-1", Email: "u@smartsec.com", Role: domainauth.RoleUser})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(tok)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidToken(err))
}

func TestService_VerifyWrongSecret(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	other := NewService("other-secret", time.Hour)

	tok, err := other.Issue(domainauth.Identity{ID: "user-1", Email: "u@smartsec.com", Role: domainauth.RoleUser})
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidToken(err))
}

func TestService_VerifyGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(tok)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidToken(err))
	}
}
