package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/smartsec/portal-bff/config"
	"github.com/smartsec/portal-bff/internal/adapters/authroles"
	"github.com/smartsec/portal-bff/internal/adapters/devauth"
	"github.com/smartsec/portal-bff/internal/adapters/memstore"
	"github.com/smartsec/portal-bff/internal/adapters/oidc"
	redisadapter "github.com/smartsec/portal-bff/internal/adapters/redis"
	"github.com/smartsec/portal-bff/internal/adapters/token"
	"github.com/smartsec/portal-bff/internal/data"
	"github.com/smartsec/portal-bff/internal/devseed"
	"github.com/smartsec/portal-bff/internal/ports"
	"github.com/smartsec/portal-bff/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthComponents bundles the auth service with the token service the
// router's auth gate needs separately.
type AuthComponents struct {
	Service *service.AuthService
	Tokens  ports.TokenService
}

// BuildAuthService wires the auth service from configuration: token
// signer, federated provider, session store, user directory, and role
// mapper. Unlike optional subsystems, a misconfigured auth stack is a
// startup error since every protected route depends on it.
func BuildAuthService(ctx context.Context, deps AuthDeps) (AuthComponents, error) {
	cfg := deps.Config
	if cfg == nil {
		return AuthComponents{}, errors.New("auth: config is required")
	}

	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)

	sessions, err := buildSessionStore(cfg, deps.RedisClient)
	if err != nil {
		return AuthComponents{}, err
	}

	provider, err := buildProvider(cfg, deps.Logger)
	if err != nil {
		return AuthComponents{}, err
	}

	users, err := buildUserDirectory(ctx, cfg, deps.DB, deps.Logger)
	if err != nil {
		return AuthComponents{}, err
	}

	svc := service.NewAuthService(service.AuthServiceOptions{
		Users:    users,
		Tokens:   tokens,
		Provider: provider,
		Sessions: sessions,
		Roles: authroles.StaticRoleMapper{
			AdminGroup:   cfg.Auth.AdminGroup,
			AnalystGroup: cfg.Auth.AnalystGroup,
			UserGroup:    cfg.Auth.UserGroup,
		},
		SessionTTL: cfg.Session.TTL,
	})

	return AuthComponents{Service: svc, Tokens: tokens}, nil
}

func buildSessionStore(cfg *config.AppConfig, client redis.UniversalClient) (ports.SessionStore, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		if client == nil {
			return nil, errors.New("auth: SESSION_STORE=redis requires a redis connection")
		}
		return redisadapter.NewSessionStoreWithPrefix(client, "session:"), nil
	case config.SessionStoreMemory:
		return memstore.NewSessionStore(), nil
	default:
		return nil, fmt.Errorf("auth: unsupported session store %q", cfg.Session.Store)
	}
}

func buildProvider(cfg *config.AppConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("auth: create OIDC provider: %w", err)
		}
		return prov, nil

	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("mock auth mode enabled; not for production use",
				"user_id", cfg.Auth.DevAuth.UserID)
		}
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:     cfg.Auth.DevAuth.UserID,
			Email:      cfg.Auth.DevAuth.Email,
			Name:       cfg.Auth.DevAuth.Name,
			Department: cfg.Auth.DevAuth.Department,
			Groups:     cfg.Auth.DevAuth.Groups,
		})
		if err != nil {
			return nil, fmt.Errorf("auth: create dev auth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("auth: unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func buildUserDirectory(ctx context.Context, cfg *config.AppConfig, db *sql.DB, logger *slog.Logger) (ports.UserDirectory, error) {
	if cfg.IsDev {
		repo := data.NewMemoryUserRepo()
		if err := devseed.Run(ctx, repo, logger); err != nil {
			return nil, fmt.Errorf("auth: seed dev users: %w", err)
		}
		return repo, nil
	}

	if db == nil {
		return nil, errors.New("auth: user directory requires a database connection")
	}
	repo := data.NewUserRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("auth: ensure user schema: %w", err)
	}
	return repo, nil
}
