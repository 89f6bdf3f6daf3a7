package httpx

import (
	"context"
	"sync"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
)

// identityKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type identityKey struct{}

// callerKey carries a mutable holder installed by Logging. The auth
// middleware runs inside the router on a derived request, so a plain context
// value set there never reaches the outer logging wrapper; the holder lets
// the caller id flow back out to the access log.
type callerKey struct{}

type callerHolder struct {
	mu sync.Mutex
	id string
}

func (h *callerHolder) set(id string) {
	h.mu.Lock()
	h.id = id
	h.mu.Unlock()
}

func (h *callerHolder) get() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id, h.id != ""
}

func withCallerHolder(ctx context.Context) (context.Context, *callerHolder) {
	holder := &callerHolder{}
	return context.WithValue(ctx, callerKey{}, holder), holder
}

// SetIdentityInContext returns a child context that carries the given identity.
// If the context holds a caller holder from Logging, the id is recorded there
// as well so the access log can report it.
func SetIdentityInContext(ctx context.Context, identity domainauth.Identity) context.Context {
	if holder, ok := ctx.Value(callerKey{}).(*callerHolder); ok {
		holder.set(identity.ID)
	}
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext returns the caller identity from context and a boolean indicating presence.
func GetIdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domainauth.Identity)
	return identity, ok
}
