package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

func TestMemoryUserRepo_CreateAndFind(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	user := domainauth.User{
		ID:           "user-1",
		Email:        "admin@smartsec.com",
		Name:         "Admin User",
		Role:         domainauth.RoleAdmin,
		Department:   "Security",
		PasswordHash: "$2a$10$hash",
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.FindByEmail(ctx, "admin@smartsec.com")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	// Lookup tolerates case and surrounding whitespace
	got, err = repo.FindByEmail(ctx, "  Admin@SmartSec.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestMemoryUserRepo_FindNotFound(t *testing.T) {
	repo := NewMemoryUserRepo()

	_, err := repo.FindByEmail(context.Background(), "nobody@smartsec.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	user := domainauth.User{ID: "user-1", Email: "user@smartsec.com", Role: domainauth.RoleUser}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, domainauth.User{ID: "user-2", Email: "USER@smartsec.com", Role: domainauth.RoleUser})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}
