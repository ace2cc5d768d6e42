package column

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a column and its leads",
		Long: `Delete a column. The leads inside it are deleted too.

Examples:
  motocrm column delete --id=<column-id>
`,
		RunE: handler.Command(handler.HandlerFunc(runDelete), handler.RequireString("id")),
	}

	cmd.Flags().String("id", "", "Column ID (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runDelete(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	id := args.GetString("id", "")
	col, err := c.App.Columns.GetColumn(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if err := c.App.Columns.DeleteColumn(ctx, user.ID, id); err != nil {
		return nil, err
	}
	return &columnResult{Column: col, action: "deleted"}, nil
}
