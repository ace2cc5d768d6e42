package column

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List board columns in order",
		Long: `List the columns of a user's board, left to right.

Examples:
  motocrm column list --user=rider@example.com
  motocrm column list --json
  motocrm column list --quiet
`,
		RunE: handler.SimpleCommand(handler.HandlerFunc(runList)),
	}

	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runList(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	cols, err := c.App.Columns.ListColumns(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return columnList(cols), nil
}
