package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3001"`

	// CORSOrigin is the exact frontend origin allowed to call the API.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// MaxBodyBytes caps the size of accepted request bodies.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"10485760"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.MaxBodyBytes < 1 {
		h.MaxBodyBytes = 10 << 20
	}
}
