package app

import (
	"log/slog"

	"github.com/MicahParks/keyfunc"

	"github.com/motoloc/motocrm/internal/auth"
	"github.com/motoloc/motocrm/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	revocation  auth.RevocationStore
	jwks        *keyfunc.JWKS
	bcryptCost  int
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithRevocationStore overrides the store chosen from redis.url
func WithRevocationStore(store auth.RevocationStore) Option {
	return func(cfg *appConfig) {
		cfg.revocation = store
	}
}

// WithJWKS supplies identity provider keys instead of fetching auth.jwks_url
func WithJWKS(jwks *keyfunc.JWKS) Option {
	return func(cfg *appConfig) {
		cfg.jwks = jwks
	}
}

// WithBcryptCost sets the password hashing cost
func WithBcryptCost(cost int) Option {
	return func(cfg *appConfig) {
		cfg.bcryptCost = cost
	}
}
