package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy embedding in token claims.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

// ValidRole reports whether r is one of the known application roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleAnalyst, RoleViewer:
		return true
	}
	return false
}

// Identity represents the authenticated principal attached to a request.
// It is created at login time and embedded (signed, not encrypted) into a
// bearer token; a new Identity replaces an old one only via re-authentication.
type Identity struct {
	ID            string
	Email         string
	Name          string
	Role          Role
	Department    string
	OAuthProvider string // empty for local credential logins
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Session is the minimal server-side record persisted for the federated
// cookie flow. Bearer-token routes never touch it.
// ID is an opaque session identifier (random, URL-safe).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// User is a stored user record as held by the user directory.
// PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	Department   string
	PasswordHash string
}

// Identity derives the request-facing Identity from a stored user record.
func (u User) Identity() Identity {
	return Identity{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
	}
}
