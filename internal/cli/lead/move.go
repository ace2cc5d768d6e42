package lead

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/models"
)

// MoveCmd returns the lead move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a lead to another column",
		Long: `Move a lead to a given column, or one column left or right.

Examples:
  motocrm lead move --id=<lead-id> --column=<column-id>
  motocrm lead move --id=<lead-id> --direction=right
`,
		RunE: handler.Command(handler.HandlerFunc(runMove), parseMoveFlags),
	}

	cmd.Flags().String("id", "", "Lead ID (required)")
	cmd.Flags().String("column", "", "Target column ID")
	cmd.Flags().String("direction", "", "left or right")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func parseMoveFlags(cmd *cobra.Command) error {
	if _, err := handler.ParseString(cmd, "id"); err != nil {
		return err
	}
	column, _ := cmd.Flags().GetString("column")
	direction, _ := cmd.Flags().GetString("direction")
	switch {
	case column != "" && direction != "":
		return errors.New("use either --column or --direction, not both")
	case column == "" && direction == "":
		return errors.New("--column or --direction is required")
	case direction != "":
		_, err := handler.ParseDirection(cmd, "direction")
		return err
	}
	return nil
}

func runMove(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	id := args.GetString("id", "")

	var moved *models.Card
	if column := args.GetString("column", ""); column != "" {
		moved, err = c.App.Cards.MoveCard(ctx, user.ID, id, column)
	} else {
		var dir models.Direction
		if dir, err = handler.ParseDirection(args.GetCmd(), "direction"); err != nil {
			return nil, err
		}
		moved, err = c.App.Cards.MoveCardDirection(ctx, user.ID, id, dir)
	}
	if err != nil {
		return nil, err
	}
	return &leadResult{Card: moved, action: "moved"}, nil
}
