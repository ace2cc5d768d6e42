package lead

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/services/card"
)

// CreateCmd returns the lead create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a lead to a column",
		Long: `Create a lead card.

Examples:
  motocrm lead create --column=<column-id> --name="Ana" --phone="11 99999-0000"

  # Quiet mode for bash capture
  LEAD_ID=$(motocrm lead create --column=<column-id> --name="Ana" --visit=2025-04-01 --quiet)
`,
		RunE: handler.Command(handler.HandlerFunc(runCreate), handler.RequireString("column", "name")),
	}

	cmd.Flags().String("column", "", "Column ID (required)")
	cmd.Flags().String("name", "", "Lead name (required)")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("visit", "", "Visit date, YYYY-MM-DD")
	cmd.Flags().String("tag", "", "Primary tag ID")
	cmd.Flags().StringSlice("tags", nil, "Additional tag IDs")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runCreate(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	created, err := c.App.Cards.CreateCard(ctx, card.CreateCardRequest{
		UserID:    user.ID,
		ColumnID:  args.GetString("column", ""),
		Name:      args.GetString("name", ""),
		Phone:     args.OptionalString("phone"),
		TagID:     args.OptionalString("tag"),
		VisitDate: args.OptionalString("visit"),
		TagIDs:    args.GetStringSlice("tags", nil),
	})
	if err != nil {
		return nil, err
	}
	return &leadResult{Card: created, action: "created"}, nil
}
