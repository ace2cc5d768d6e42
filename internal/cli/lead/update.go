package lead

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/services/card"
)

// UpdateCmd returns the lead update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit a lead",
		Long: `Edit the fields of a lead. Only the flags given are changed; an empty
value clears an optional field.

Examples:
  motocrm lead update --id=<lead-id> --name="Ana Souza"
  motocrm lead update --id=<lead-id> --phone=""
`,
		RunE: handler.Command(handler.HandlerFunc(runUpdate), handler.RequireString("id")),
	}

	cmd.Flags().String("id", "", "Lead ID (required)")
	cmd.Flags().String("name", "", "Lead name")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("visit", "", "Visit date, YYYY-MM-DD")
	cmd.Flags().String("tag", "", "Primary tag ID")
	cmd.Flags().String("column", "", "Column ID")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := c.App.Cards.UpdateCard(ctx, card.UpdateCardRequest{
		UserID:    user.ID,
		ID:        args.GetString("id", ""),
		Name:      args.OptionalString("name"),
		Phone:     args.OptionalString("phone"),
		TagID:     args.OptionalString("tag"),
		VisitDate: args.OptionalString("visit"),
		ColumnID:  args.OptionalString("column"),
	})
	if err != nil {
		return nil, err
	}
	return &leadResult{Card: updated, action: "updated"}, nil
}
