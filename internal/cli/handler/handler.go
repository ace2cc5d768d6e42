// Package handler provides command execution abstraction to reduce boilerplate
package handler

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/models"
)

// Handler defines the interface for command execution
type Handler interface {
	// Execute runs the command with parsed arguments
	Execute(ctx context.Context, args *Arguments) (any, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, args *Arguments) (any, error)

// Execute calls f
func (f HandlerFunc) Execute(ctx context.Context, args *Arguments) (any, error) {
	return f(ctx, args)
}

// Arguments captures parsed CLI arguments and flags
type Arguments struct {
	Flags map[string]any
	Args  []string
	cmd   *cobra.Command
}

// GetCmd returns the cobra command for access to flag parsing utilities
func (a *Arguments) GetCmd() *cobra.Command {
	return a.cmd
}

// CLI returns the application context of the running command
func (a *Arguments) CLI(ctx context.Context) (*cli.CLI, error) {
	return cli.GetCLIFromContext(ctx)
}

// User resolves the account named by --user or the environment
func (a *Arguments) User(ctx context.Context) (*cli.CLI, *models.User, error) {
	c, err := a.CLI(ctx)
	if err != nil {
		return nil, nil, err
	}
	email, err := cli.GetUserEmail(a.cmd)
	if err != nil {
		return nil, nil, err
	}
	user, err := c.ResolveUser(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return c, user, nil
}

// Command wraps common command execution logic
// Returns a cobra RunE compatible function
func Command(handler Handler, parseFlags func(*cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get formatter from flags
		jsonOutput, quietMode, outErr := OutputFormats(cmd)
		formatter := &cli.OutputFormatter{
			JSON:  jsonOutput,
			Quiet: quietMode,
			Out:   cmd.OutOrStdout(),
			Err:   cmd.ErrOrStderr(),
		}

		fail := func(err error) error {
			if fmtErr := formatter.ErrorWithSuggestion(cli.ErrorCode(err), err.Error(), cli.Suggestion(err)); fmtErr != nil {
				slog.Error("failed to format error message", "error", fmtErr)
			}
			return &cli.ExitCodeError{Code: cli.ExitCode(err), Err: err}
		}

		if outErr != nil {
			return fail(&cli.ExitCodeError{Code: cli.ExitUsage, Err: outErr})
		}

		// Parse flags
		if parseFlags != nil {
			if err := parseFlags(cmd); err != nil {
				return fail(&cli.ExitCodeError{Code: cli.ExitUsage, Err: err})
			}
		}

		// Build arguments map from all flags
		arguments := &Arguments{
			Flags: parseFlagsToMap(cmd),
			Args:  args,
			cmd:   cmd,
		}

		// Execute handler
		result, err := handler.Execute(ctx, arguments)
		if err != nil {
			return fail(err)
		}

		// Common output formatting
		return formatter.Success(result)
	}
}

// SimpleCommand wraps command execution with minimal setup
// Use this for commands that don't need complex flag parsing
func SimpleCommand(handler Handler) func(*cobra.Command, []string) error {
	return Command(handler, nil)
}

// AddOutputFlags registers the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

// parseFlagsToMap converts cobra command flags to a map
func parseFlagsToMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	// Visit all flags that were explicitly set
	cmd.Flags().Visit(func(f *pflag.Flag) {
		// Get the value based on flag type
		switch f.Value.Type() {
		case "string":
			if v, err := cmd.Flags().GetString(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "int":
			if v, err := cmd.Flags().GetInt(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "bool":
			if v, err := cmd.Flags().GetBool(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "stringSlice":
			if v, err := cmd.Flags().GetStringSlice(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "duration":
			if v, err := cmd.Flags().GetDuration(f.Name); err == nil {
				flags[f.Name] = v
			}
		default:
			slog.Debug("unsupported flag type", "flag", f.Name, "type", f.Value.Type())
		}
	})

	return flags
}

// Has reports whether the flag was set explicitly
func (a *Arguments) Has(name string) bool {
	_, ok := a.Flags[name]
	return ok
}

// GetString retrieves a string flag with default
func (a *Arguments) GetString(name string, defaultVal string) string {
	v, ok := a.Flags[name]
	if !ok {
		return defaultVal
	}
	val, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return val
}

// OptionalString returns a pointer to the flag value when it was set, so
// update commands can tell "unset" from "clear"
func (a *Arguments) OptionalString(name string) *string {
	v, ok := a.Flags[name].(string)
	if !ok {
		return nil
	}
	return &v
}

// GetInt retrieves an int flag with default
func (a *Arguments) GetInt(name string, defaultVal int) int {
	v, ok := a.Flags[name]
	if !ok {
		return defaultVal
	}
	val, ok := v.(int)
	if !ok {
		return defaultVal
	}
	return val
}

// OptionalInt returns a pointer to the flag value when it was set
func (a *Arguments) OptionalInt(name string) *int {
	v, ok := a.Flags[name].(int)
	if !ok {
		return nil
	}
	return &v
}

// GetBool retrieves a bool flag
func (a *Arguments) GetBool(name string) bool {
	v, ok := a.Flags[name]
	if !ok {
		return false
	}
	val, ok := v.(bool)
	if !ok {
		return false
	}
	return val
}

// GetStringSlice retrieves a string slice flag with default
func (a *Arguments) GetStringSlice(name string, defaultVal []string) []string {
	v, ok := a.Flags[name]
	if !ok {
		return defaultVal
	}
	val, ok := v.([]string)
	if !ok {
		return defaultVal
	}
	return val
}
