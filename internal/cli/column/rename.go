package column

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// RenameCmd returns the column rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a column",
		Long: `Rename a column.

Examples:
  motocrm column rename --id=<column-id> --name="Test ride"
`,
		RunE: handler.Command(handler.HandlerFunc(runRename), handler.RequireString("id", "name")),
	}

	cmd.Flags().String("id", "", "Column ID (required)")
	cmd.Flags().String("name", "", "New column name (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runRename(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	id := args.GetString("id", "")
	if err := c.App.Columns.RenameColumn(ctx, user.ID, id, args.GetString("name", "")); err != nil {
		return nil, err
	}
	col, err := c.App.Columns.GetColumn(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	return &columnResult{Column: col, action: "renamed"}, nil
}
