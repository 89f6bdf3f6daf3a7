// Package devseed populates the user directory with well-known development
// accounts. Never wired in production mode.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartsec/portal-bff/internal/data"
	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// UserCreator is the subset of the user repository needed for seeding.
type UserCreator interface {
	Create(ctx context.Context, u domainauth.User) error
}

// devPassword is the shared password for all seeded accounts.
const devPassword = "password123"

// seedUsers are the development accounts the frontend login screen documents.
var seedUsers = []domainauth.User{
	{
		ID:         "dev-admin",
		Email:      "admin@smartsec.com",
		Name:       "Admin User",
		Role:       domainauth.RoleAdmin,
		Department: "Security",
	},
	{
		ID:         "dev-user",
		Email:      "user@smartsec.com",
		Name:       "Regular User",
		Role:       domainauth.RoleUser,
		Department: "IT",
	},
}

// Run seeds the development accounts into the given directory. Accounts that
// already exist are left untouched.
func Run(ctx context.Context, users UserCreator, logger *slog.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev password: %w", err)
	}

	for _, u := range seedUsers {
		u.PasswordHash = string(hash)
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, data.ErrUserEmailExists) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded dev user", "email", u.Email, "role", u.Role)
		}
	}
	return nil
}
