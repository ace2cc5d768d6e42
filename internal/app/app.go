package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc"

	"github.com/motoloc/motocrm/internal/auth"
	"github.com/motoloc/motocrm/internal/config"
	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/services/card"
	"github.com/motoloc/motocrm/internal/services/chat"
	"github.com/motoloc/motocrm/internal/services/column"
	"github.com/motoloc/motocrm/internal/services/dashboard"
	"github.com/motoloc/motocrm/internal/services/export"
	"github.com/motoloc/motocrm/internal/services/followup"
	"github.com/motoloc/motocrm/internal/services/tag"
	"github.com/motoloc/motocrm/internal/services/theme"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	db   *sql.DB
	repo database.DataStore

	// Event system for live updates
	eventClient events.EventPublisher

	Config   *config.Config
	Location *time.Location
	Logger   *slog.Logger

	// Service layer (business logic)
	Auth      auth.Service
	Columns   column.Service
	Cards     card.Service
	Tags      tag.Service
	FollowUps followup.Service
	Themes    theme.Service
	Chat      chat.Service
	Dashboard dashboard.Service
	Export    export.Service

	closers []func() error
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(ctx context.Context, db *sql.DB, cfg *config.Config, opts ...Option) (*App, error) {
	ac := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(ac)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		db:          db,
		repo:        database.NewRepository(db),
		eventClient: ac.eventClient,
		Config:      cfg,
		Location:    loc,
		Logger:      ac.logger,
	}

	tokens, err := a.tokens(cfg, ac)
	if err != nil {
		return nil, err
	}
	revocation, err := a.revocationStore(ctx, cfg, ac)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Auth = auth.NewService(a.repo, auth.Options{
		Tokens:     tokens,
		Revocation: revocation,
		BcryptCost: ac.bcryptCost,
	})
	a.Columns = column.NewService(a.repo, a.eventClient)
	a.Cards = card.NewService(a.repo, a.eventClient)
	a.Tags = tag.NewService(a.repo, a.eventClient)
	a.FollowUps = followup.NewService(a.repo, a.eventClient)
	a.Themes = theme.NewService(a.repo, a.eventClient)
	a.Chat = chat.NewService(a.repo, a.eventClient)
	a.Dashboard = dashboard.NewService(a.repo, loc)
	a.Export = export.NewService(a.repo, loc)
	return a, nil
}

func (a *App) tokens(cfg *config.Config, ac *appConfig) (*auth.Tokens, error) {
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		a.Logger.Warn("auth.jwt_secret is not set, using a random secret; tokens will not survive a restart")
	}

	jwks := ac.jwks
	if jwks == nil && cfg.Auth.JWKSURL != "" {
		var err error
		jwks, err = keyfunc.Get(cfg.Auth.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				a.Logger.Error("jwks refresh failed", "url", cfg.Auth.JWKSURL, "error", err)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load jwks: %w", err)
		}
		a.closers = append(a.closers, func() error {
			jwks.EndBackground()
			return nil
		})
	}

	return auth.NewTokens(auth.TokenOptions{
		Secret: secret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
		JWKS:   jwks,
		Leeway: time.Minute,
	}), nil
}

func (a *App) revocationStore(ctx context.Context, cfg *config.Config, ac *appConfig) (auth.RevocationStore, error) {
	if ac.revocation != nil {
		return ac.revocation, nil
	}
	if cfg.Redis.URL == "" {
		return auth.NewMemoryRevocationStore(), nil
	}
	store, err := auth.NewRedisRevocationStoreFromURL(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	a.Logger.Info("using redis token revocation store")
	return store, nil
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Ping checks that the database is reachable
func (a *App) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// EventClient returns the publisher services notify, which may be nil
func (a *App) EventClient() events.EventPublisher {
	return a.eventClient
}

// NewFollowUpWorker creates the poller announcing due follow-ups
func (a *App) NewFollowUpWorker() *followup.Worker {
	return followup.NewWorker(a.FollowUps, a.eventClient, a.Config.FollowUp.PollInterval)
}

// Close releases external clients held by the services
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

var _ io.Closer = (*App)(nil)
