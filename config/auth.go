package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for federated authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"smartsec-portal"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:3001/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID     string   `env:"USER_ID"    envDefault:"dev-user"`
	Email      string   `env:"EMAIL"      envDefault:"dev@smartsec.com"`
	Name       string   `env:"NAME"       envDefault:"Dev User"`
	Department string   `env:"DEPARTMENT" envDefault:"Engineering"`
	Groups     []string `env:"GROUPS"     envDefault:"admins"            envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which federated authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// JWTSecret signs issued bearer tokens. Required: the service refuses
	// to start without it so tokens are never signed with a known default.
	JWTSecret string `env:"JWT_SECRET,required"`

	// TokenLifetime is how long issued tokens remain valid.
	TokenLifetime time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the IdP group granting the admin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"admins"`

	// AnalystGroup is the IdP group granting the analyst role.
	AnalystGroup string `env:"ANALYST_GROUP" envDefault:"analysts"`

	// UserGroup is the IdP group granting the regular user role.
	UserGroup string `env:"USER_GROUP" envDefault:"users"`
}
