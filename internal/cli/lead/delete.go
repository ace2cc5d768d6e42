package lead

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// DeleteCmd returns the lead delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a lead",
		RunE:  handler.Command(handler.HandlerFunc(runDelete), handler.RequireString("id")),
	}

	cmd.Flags().String("id", "", "Lead ID (required)")
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
	got, err := c.App.Cards.GetCard(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if err := c.App.Cards.DeleteCard(ctx, user.ID, id); err != nil {
		return nil, err
	}
	return &leadResult{Card: got, action: "deleted"}, nil
}
