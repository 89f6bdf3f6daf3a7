package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/smartsec/portal-bff/config"
	"github.com/smartsec/portal-bff/internal/service"
)

func devModeConfig() *config.AppConfig {
	return &config.AppConfig{
		IsDev: true,
		Auth: config.AuthConfig{
			Mode:         config.AuthModeMock,
			JWTSecret:    "test-secret",
			AdminGroup:   "admins",
			AnalystGroup: "analysts",
			UserGroup:    "users",
			DevAuth: config.DevAuthConfig{
				UserID: "dev",
				Email:  "dev@example.com",
				Groups: []string{"admins"},
			},
		},
		Session: config.SessionConfig{Store: config.SessionStoreMemory},
	}
}

func TestBuildAuthServiceDevMode(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auth, err := BuildAuthService(context.Background(), AuthDeps{
		Config: devModeConfig(),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("BuildAuthService() error = %v", err)
	}
	if auth.Service == nil {
		t.Fatal("BuildAuthService() returned nil service")
	}
	if auth.Tokens == nil {
		t.Fatal("BuildAuthService() returned nil token service")
	}

	// Dev mode seeds the in-memory directory, so logins work immediately.
	result, err := auth.Service.Login(context.Background(), service.LoginInput{
		Email:    "admin@smartsec.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Login() returned empty token")
	}
}

func TestBuildAuthServiceErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		mutate func(cfg *config.AppConfig)
	}{
		{
			name: "redis session store without client",
			mutate: func(cfg *config.AppConfig) {
				cfg.Session.Store = config.SessionStoreRedis
			},
		},
		{
			name: "dev auth missing email",
			mutate: func(cfg *config.AppConfig) {
				cfg.Auth.DevAuth.Email = ""
			},
		},
		{
			name: "oauth without discovery URL",
			mutate: func(cfg *config.AppConfig) {
				cfg.Auth.Mode = config.AuthModeOAuth
				cfg.Auth.OAuth = config.OAuthConfig{ClientID: "id", ClientSecret: "secret"}
			},
		},
		{
			name: "production without database",
			mutate: func(cfg *config.AppConfig) {
				cfg.IsDev = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := devModeConfig()
			tt.mutate(cfg)

			if _, err := BuildAuthService(context.Background(), AuthDeps{Config: cfg, Logger: logger}); err == nil {
				t.Fatal("BuildAuthService() error = nil, want error")
			}
		})
	}
}
