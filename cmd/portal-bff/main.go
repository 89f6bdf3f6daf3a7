package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/smartsec/portal-bff/config"
	"github.com/smartsec/portal-bff/internal/bootstrap"
	httpx "github.com/smartsec/portal-bff/internal/http"
	"github.com/smartsec/portal-bff/internal/upstream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting portal-bff",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Session.Store,
		"dev_mode", cfg.IsDev,
	)

	db, redisClient, err := initInfrastructure(&cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database failed", "error", cerr)
			}
		}()
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	auth, err := bootstrap.BuildAuthService(ctx, bootstrap.AuthDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	telemetry := upstream.NewClient(upstream.ClientOptions{
		Name:    "Telemetry",
		Base:    cfg.Upstream.TelemetryURL,
		Logger:  logger,
		DevMode: cfg.IsDev,
	})
	mcp := upstream.NewClient(upstream.ClientOptions{
		Name:    "MCP",
		Base:    cfg.Upstream.MCPURL,
		Logger:  logger,
		DevMode: cfg.IsDev,
	})

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config: &cfg,
		Services: httpx.RouterServices{
			Auth:           auth.Service,
			Tokens:         auth.Tokens,
			Telemetry:      telemetry,
			MCP:            mcp,
			ReadTimeout:    cfg.Upstream.ReadTimeout,
			QueryTimeout:   cfg.Upstream.QueryTimeout,
			FrontendOrigin: cfg.HTTP.CORSOrigin,
			CookieDomain:   cfg.HTTP.CookieDomain,
			Logger:         logger,
		},
		Logger: logger,
	})

	<-ctx.Done()

	// Detach from the cancelled signal context so shutdown gets its own deadline.
	return bootstrap.ShutdownHTTPServer(context.Background(), server, logger)
}

// initInfrastructure connects the external dependencies the configuration
// calls for. Development mode runs without Postgres, and the in-memory
// session store runs without Redis.
//
//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func initInfrastructure(cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, redis.UniversalClient, error) {
	var db *sql.DB
	if !cfg.IsDev {
		var err error
		db, err = bootstrap.ConnectDB(cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
	}

	var redisClient redis.UniversalClient
	if cfg.Session.Store == config.SessionStoreRedis {
		var err error
		redisClient, err = bootstrap.ConnectRedis(cfg.Redis, logger)
		if err != nil {
			if db != nil {
				if cerr := db.Close(); cerr != nil {
					logger.Error("close database after redis connect failure", "error", cerr)
				}
			}
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	return db, redisClient, nil
}
