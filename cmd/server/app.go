package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/config"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/postgres"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// blacklistPurgeInterval is how often expired revoked-token entries are
// removed from the blacklist.
const blacklistPurgeInterval = time.Hour

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore
	blacklist store.TokenBlacklist

	// Service interfaces
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	cookieWriter     *auth.CookieWriter

	purgeStop chan struct{}
	purgeDone chan struct{}
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()
	app.cookieWriter = auth.NewCookieWriter(
		cfg.Auth.CookieSecure,
		app.jwtService.AccessTokenLifetime(),
		app.jwtService.RefreshTokenLifetime(),
	)

	app.userStore = postgres.NewUserStore(db)
	app.taskStore = postgres.NewTaskStore(db)
	app.blacklist = postgres.NewTokenBlacklistStore(db)

	app.startBlacklistPurger()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// startBlacklistPurger periodically removes revoked-token entries whose
// underlying tokens have expired on their own.
func (app *application) startBlacklistPurger() {
	app.purgeStop = make(chan struct{})
	app.purgeDone = make(chan struct{})

	go func() {
		defer close(app.purgeDone)
		ticker := time.NewTicker(blacklistPurgeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				n, err := app.blacklist.PurgeExpired(ctx, time.Now())
				cancel()
				if err != nil {
					app.logger.Error("Failed to purge expired revoked tokens", "error", err)
					continue
				}
				if n > 0 {
					app.logger.Info("Purged expired revoked tokens", "count", n)
				}
			case <-app.purgeStop:
				return
			}
		}
	}()
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.purgeStop != nil {
		close(app.purgeStop)
		<-app.purgeDone
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
