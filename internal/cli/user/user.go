// Package user holds all cli commands related to panel accounts
// e.g., motocrm user ...
package user

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/auth"
	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
)

// UserCmd returns the user parent command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage panel accounts",
	}

	cmd.AddCommand(createCmd())
	cmd.AddCommand(showCmd())
	cmd.AddCommand(loginCmd())

	return cmd
}

// userResult wraps an account for output
type userResult struct {
	*models.User
	action string
}

// GetID implements cli.Identifier for quiet mode output
func (r *userResult) GetID() string { return r.ID }

func (r *userResult) Render(w io.Writer) error {
	if r.action != "" {
		_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("User %s %s (ID: %s)", r.Email, r.action, r.ID)))
		return err
	}
	_, err := fmt.Fprintln(w, styles.RenderField("Email", r.Email)+"\n"+
		styles.RenderField("ID", r.ID)+"\n"+
		styles.RenderField("Created", r.CreatedAt.Format("02/01/2006 15:04")))
	return err
}

// sessionResult wraps a sign-in for output
type sessionResult struct {
	*auth.Session
}

// GetID implements cli.Identifier, printing the bare token in quiet mode
func (r *sessionResult) GetID() string { return r.Token }

func (r *sessionResult) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", cli.Check(fmt.Sprintf("Signed in as %s until %s",
		r.User.Email, r.ExpiresAt.Format("02/01/2006 15:04"))), r.Token)
	return err
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register an account with the default board",
		Long: `Register an account. The board starts with the default columns.

Examples:
  motocrm user create --email=rider@example.com --password=secret1
`,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, err := args.CLI(ctx)
			if err != nil {
				return nil, err
			}
			u, err := c.App.Auth.SignUp(ctx, args.GetString("email", ""), args.GetString("password", ""))
			if err != nil {
				return nil, err
			}
			return &userResult{User: u, action: "created"}, nil
		}), handler.RequireString("email", "password")),
	}
	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password, at least 6 characters (required)")
	handler.AddOutputFlags(cmd)
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the account selected by --user",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			_, u, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			return &userResult{User: u}, nil
		})),
	}
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an API token",
		Long: `Sign in and print a bearer token for the HTTP API.

Examples:
  TOKEN=$(motocrm user login --email=rider@example.com --password=secret1 --quiet)
  curl -H "Authorization: Bearer $TOKEN" localhost:8080/api/cards
`,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, err := args.CLI(ctx)
			if err != nil {
				return nil, err
			}
			s, err := c.App.Auth.SignIn(ctx, args.GetString("email", ""), args.GetString("password", ""))
			if err != nil {
				return nil, err
			}
			return &sessionResult{s}, nil
		}), handler.RequireString("email", "password")),
	}
	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password (required)")
	handler.AddOutputFlags(cmd)
	return cmd
}
