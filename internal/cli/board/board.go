// Package board renders the kanban board in the terminal,
// e.g., motocrm board
package board

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
	cardservice "github.com/motoloc/motocrm/internal/services/card"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the lead board with its columns side by side",
		Long: `Show every column of the board with its leads. --search and --tag narrow the leads shown.

Examples:
  motocrm board --user=rider@example.com
  motocrm board --search=ana --tag=<tag-id>
`,
		RunE: handler.SimpleCommand(handler.HandlerFunc(runBoard)),
	}
	cmd.Flags().String("search", "", "Only leads whose name or phone contains this text")
	cmd.Flags().String("tag", "", "Only leads with this tag ID")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

// boardColumn is one column with its leads, in board order
type boardColumn struct {
	*models.Column
	Cards []*models.Card `json:"cards"`
}

// boardResult is the whole board
type boardResult struct {
	Columns []*boardColumn `json:"columns"`
}

// IDs implements cli.IDLister for quiet mode output
func (b *boardResult) IDs() []string {
	var ids []string
	for _, col := range b.Columns {
		for _, c := range col.Cards {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (b *boardResult) Render(w io.Writer) error {
	if len(b.Columns) == 0 {
		_, err := fmt.Fprintln(w, "No columns found")
		return err
	}
	rendered := make([]string, len(b.Columns))
	for i, col := range b.Columns {
		lines := make([]string, len(col.Cards))
		for j, c := range col.Cards {
			line := c.Name
			if c.Tag != nil {
				line += " " + styles.RenderTagChip(c.Tag)
			}
			if c.Phone != nil && *c.Phone != "" {
				line += "\n" + cli.Muted("  "+*c.Phone)
			}
			lines[j] = line
		}
		rendered[i] = styles.RenderColumn(col.Name, lines)
	}
	_, err := fmt.Fprintln(w, styles.RenderBoard(rendered))
	return err
}

func runBoard(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	cols, err := c.App.Columns.ListColumns(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	cards, err := c.App.Cards.ListCards(ctx, user.ID, cardservice.ListCardsRequest{
		Search: args.GetString("search", ""),
		TagID:  args.GetString("tag", ""),
	})
	if err != nil {
		return nil, err
	}

	result := &boardResult{Columns: make([]*boardColumn, len(cols))}
	byID := make(map[string]*boardColumn, len(cols))
	for i, col := range cols {
		result.Columns[i] = &boardColumn{Column: col, Cards: []*models.Card{}}
		byID[col.ID] = result.Columns[i]
	}
	for _, card := range cards {
		if col, ok := byID[card.ColumnID]; ok {
			col.Cards = append(col.Cards, card)
		}
	}
	return result, nil
}
