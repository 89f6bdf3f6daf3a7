package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects the session store backend.
type SessionStoreKind string

const (
	// SessionStoreMemory keeps sessions in process memory (development).
	SessionStoreMemory SessionStoreKind = "memory"
	// SessionStoreRedis keeps sessions in Redis (production).
	SessionStoreRedis SessionStoreKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (s *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*s = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: memory, redis)", v)
	}
}

// SessionConfig contains federated-login session configuration.
type SessionConfig struct {
	// Store selects the backing store for sessions.
	Store SessionStoreKind `env:"SESSION_STORE" envDefault:"memory"`

	// TTL is how long a federated-login session lives.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.TTL < time.Minute {
		s.TTL = 24 * time.Hour
	}
}
