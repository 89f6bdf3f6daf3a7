package devseed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartsec/portal-bff/internal/data"
	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

func TestRun_SeedsBothAccounts(t *testing.T) {
	repo := data.NewMemoryUserRepo()
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, nil))

	admin, err := repo.FindByEmail(ctx, "admin@smartsec.com")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, admin.Role)
	assert.Equal(t, "Security", admin.Department)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("password123")))

	user, err := repo.FindByEmail(ctx, "user@smartsec.com")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, user.Role)
	assert.Equal(t, "IT", user.Department)
}

func TestRun_Idempotent(t *testing.T) {
	repo := data.NewMemoryUserRepo()
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, nil))
	require.NoError(t, Run(ctx, repo, nil))
}
