package httpx

// Package httpx wires the portal's HTTP surface: auth endpoints, gated
// proxy routes, and aggregate views.

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	"github.com/smartsec/portal-bff/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth   AuthServiceInterface
	Tokens ports.TokenService

	Telemetry UpstreamCaller
	MCP       UpstreamCaller

	// Timeouts for proxied calls.
	ReadTimeout  time.Duration
	QueryTimeout time.Duration

	FrontendOrigin string
	CookieDomain   string
	Logger         *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:            services.Auth,
		FrontendOrigin: services.FrontendOrigin,
		CookieDomain:   services.CookieDomain,
		Logger:         services.Logger,
	}
	telemetryHandlers := &TelemetryHandlers{
		Client:  services.Telemetry,
		Timeout: services.ReadTimeout,
	}
	mcpHandlers := &MCPHandlers{
		Client:       services.MCP,
		ReadTimeout:  services.ReadTimeout,
		QueryTimeout: services.QueryTimeout,
	}
	dashboardHandlers := &DashboardHandlers{
		Telemetry: services.Telemetry,
		Timeout:   services.ReadTimeout,
	}

	requireAuth := RequireAuth(services.Tokens)
	adminOnly := RequireRole(domainauth.RoleAdmin)

	registerAuthRoutes(mux, authHandlers, requireAuth)
	registerTelemetryRoutes(mux, telemetryHandlers, requireAuth, adminOnly)
	registerMCPRoutes(mux, mcpHandlers, requireAuth)
	registerDashboardRoutes(mux, dashboardHandlers, requireAuth, adminOnly)

	mux.Handle("GET /health", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /health", http.HandlerFunc(healthHandler))

	return mux
}

type middleware func(http.Handler) http.Handler

// gated registers a handler behind the given middleware chain, outermost first.
func gated(mux *http.ServeMux, pattern string, h http.HandlerFunc, mws ...middleware) {
	var handler http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	mux.Handle(pattern, handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, requireAuth middleware) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("GET /auth/oauth2", h.OAuthLogin)
	mux.HandleFunc("GET /auth/callback", h.OAuthCallback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	gated(mux, "GET /auth/profile", h.Profile, requireAuth)
}

func registerTelemetryRoutes(mux *http.ServeMux, h *TelemetryHandlers, requireAuth, adminOnly middleware) {
	gated(mux, "GET /api/telemetry/devices", h.Devices, requireAuth)
	gated(mux, "GET /api/telemetry/containers", h.Containers, requireAuth)
	gated(mux, "GET /api/telemetry/health", h.Health, requireAuth)
	gated(mux, "GET /api/telemetry/stats", h.Stats, requireAuth, adminOnly)
	gated(mux, "GET /api/telemetry/activities", h.Activities, requireAuth)
	gated(mux, "GET /api/telemetry/threats", h.Threats, requireAuth)
}

func registerMCPRoutes(mux *http.ServeMux, h *MCPHandlers, requireAuth middleware) {
	gated(mux, "POST /api/mcp/query", h.Query, requireAuth)
	gated(mux, "GET /api/mcp/tools", h.Tools, requireAuth)
	gated(mux, "POST /api/mcp/tools/{toolName}", h.ExecuteTool, requireAuth)
	gated(mux, "GET /api/mcp/history", h.History, requireAuth)
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, requireAuth, adminOnly middleware) {
	gated(mux, "GET /api/dashboard", h.Summary, requireAuth)
	gated(mux, "GET /api/fleet", h.Fleet, requireAuth, adminOnly)
}
