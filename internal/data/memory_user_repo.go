package data

import (
	"context"
	"strings"
	"sync"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// MemoryUserRepo is an in-memory user directory for development mode.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]domainauth.User // keyed by lowercase email
}

// NewMemoryUserRepo creates an empty in-memory user directory.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]domainauth.User)}
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (domainauth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domainauth.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, u domainauth.User) error {
	key := strings.ToLower(strings.TrimSpace(u.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[key]; exists {
		return ErrUserEmailExists
	}
	r.users[key] = u
	return nil
}
