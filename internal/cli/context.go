package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/config"
)

// UserEnv names the environment variable holding the default --user
const UserEnv = "MOTOCRM_USER"

// ErrNoUser is returned when a command needs an account and none was given
var ErrNoUser = errors.New("no user specified: use --user or set " + UserEnv)

type (
	cliKey    struct{}
	configKey struct{}
)

// WithCLI stores the CLI in ctx for subcommands to pick up
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, cliKey{}, c)
}

// GetCLIFromContext returns the CLI stored by WithCLI
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		return nil, errors.New("no context")
	}
	c, ok := ctx.Value(cliKey{}).(*CLI)
	if !ok || c == nil {
		return nil, errors.New("cli not initialized")
	}
	return c, nil
}

// WithConfig stores the loaded configuration in ctx
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext returns the configuration stored by WithConfig
func ConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not loaded")
	}
	return cfg, nil
}

// AddUserFlag registers the --user flag on cmd
func AddUserFlag(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "Email of the account to act as (uses "+UserEnv+" env var if not specified)")
}

// GetUserEmail reads --user, falling back to the environment
func GetUserEmail(cmd *cobra.Command) (string, error) {
	email, _ := cmd.Flags().GetString("user")
	if email == "" {
		email = os.Getenv(UserEnv)
	}
	if email == "" {
		return "", ErrNoUser
	}
	return email, nil
}

// StandaloneAnnotation marks commands that build their own application
// instead of the shared CLI
const StandaloneAnnotation = "motocrm.standalone"
