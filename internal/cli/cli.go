// Package cli holds the shared plumbing of the motocrm command line:
// the application container, output formatting and exit codes.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/motoloc/motocrm/internal/app"
	"github.com/motoloc/motocrm/internal/config"
	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
	db     *sql.DB
}

// NewCLI opens the configured database and builds the services on top of it.
// eventClient may be nil when nothing listens for changes.
func NewCLI(ctx context.Context, cfg *config.Config, eventClient events.EventPublisher) (*CLI, error) {
	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var opts []app.Option
	if eventClient != nil {
		opts = append(opts, app.WithEventPublisher(eventClient))
	}
	application, err := app.New(ctx, db, cfg, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &CLI{App: application, Config: cfg, db: db}, nil
}

// NewFromApp wraps an existing application, leaving the database to its owner
func NewFromApp(a *app.App) *CLI {
	return &CLI{App: a, Config: a.Config}
}

// ResolveUser finds the account a command acts for
func (c *CLI) ResolveUser(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, ErrNoUser
	}
	return c.App.Auth.LookupUser(ctx, email)
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	err := c.App.Close()
	if c.db != nil {
		if dbErr := c.db.Close(); dbErr != nil {
			slog.Error("failed to close database", "error", dbErr)
			err = errors.Join(err, dbErr)
		}
	}
	return err
}
