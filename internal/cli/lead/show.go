package lead

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// ShowCmd returns the lead show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a lead with its tags",
		RunE:  handler.Command(handler.HandlerFunc(runShow), handler.RequireString("id")),
	}

	cmd.Flags().String("id", "", "Lead ID (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runShow(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	got, err := c.App.Cards.GetCard(ctx, user.ID, args.GetString("id", ""))
	if err != nil {
		return nil, err
	}
	col, err := c.App.Columns.GetColumn(ctx, user.ID, got.ColumnID)
	if err != nil {
		return nil, err
	}
	return &leadResult{Card: got, ColumnName: col.Name}, nil
}
