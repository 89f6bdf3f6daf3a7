package config

import "time"

// UpstreamConfig contains configuration for proxied backend services.
type UpstreamConfig struct {
	// TelemetryURL is the base URL of the telemetry API.
	TelemetryURL string `env:"TELEMETRY_API_URL" envDefault:"http://localhost:8080"`

	// MCPURL is the base URL of the MCP analysis server.
	MCPURL string `env:"MCP_SERVER_URL" envDefault:"http://localhost:8082"`

	// ReadTimeout bounds ordinary proxied calls.
	ReadTimeout time.Duration `env:"UPSTREAM_READ_TIMEOUT" envDefault:"10s"`

	// QueryTimeout bounds long-running analysis calls (MCP query and tool
	// execution), which can take much longer than simple reads.
	QueryTimeout time.Duration `env:"UPSTREAM_QUERY_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	if u.ReadTimeout < time.Second {
		u.ReadTimeout = 10 * time.Second
	}
	if u.QueryTimeout < u.ReadTimeout {
		u.QueryTimeout = u.ReadTimeout
	}
}
