package column

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// MoveCmd returns the column move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Swap a column with its left or right neighbour",
		Long: `Move a column one place left or right.

Examples:
  motocrm column move --id=<column-id> --direction=right
`,
		RunE: handler.Command(handler.HandlerFunc(runMove), parseMoveFlags),
	}

	cmd.Flags().String("id", "", "Column ID (required)")
	cmd.Flags().String("direction", "", "left or right (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func parseMoveFlags(cmd *cobra.Command) error {
	if _, err := handler.ParseString(cmd, "id"); err != nil {
		return err
	}
	_, err := handler.ParseDirection(cmd, "direction")
	return err
}

func runMove(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := handler.ParseDirection(args.GetCmd(), "direction")
	if err != nil {
		return nil, err
	}
	if err := c.App.Columns.MoveColumn(ctx, user.ID, args.GetString("id", ""), dir); err != nil {
		return nil, err
	}
	cols, err := c.App.Columns.ListColumns(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return columnList(cols), nil
}
