package lead

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/services/card"
)

// ListCmd returns the lead list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		Long: `List leads with optional filters.

Examples:
  motocrm lead list --search=ana
  motocrm lead list --tag=<tag-id> --column=<column-id> --json
`,
		RunE: handler.SimpleCommand(handler.HandlerFunc(runList)),
	}

	cmd.Flags().String("search", "", "Case-insensitive match on name or phone")
	cmd.Flags().String("tag", "", "Only leads carrying this tag ID")
	cmd.Flags().String("column", "", "Only leads in this column ID")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runList(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := c.App.Cards.ListCards(ctx, user.ID, card.ListCardsRequest{
		Search:   args.GetString("search", ""),
		TagID:    args.GetString("tag", ""),
		ColumnID: args.GetString("column", ""),
	})
	if err != nil {
		return nil, err
	}
	names, err := columnNames(ctx, c, user.ID)
	if err != nil {
		return nil, err
	}
	return &leadList{Cards: cards, columns: names}, nil
}
