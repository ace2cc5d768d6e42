package column

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a new column to the board",
		Long: `Create a new column at the right end of the board.

Examples:
  # Human-readable output
  motocrm column create --name="Returned" --user=rider@example.com

  # Quiet mode for bash capture
  COLUMN_ID=$(motocrm column create --name="Returned" --quiet)
`,
		RunE: handler.Command(handler.HandlerFunc(runCreate), handler.RequireString("name")),
	}

	cmd.Flags().String("name", "", "Column name (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runCreate(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	col, err := c.App.Columns.CreateColumn(ctx, user.ID, args.GetString("name", ""))
	if err != nil {
		return nil, err
	}
	return &columnResult{Column: col, action: "created"}, nil
}
