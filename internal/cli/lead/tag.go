package lead

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
)

// TagCmd returns the lead tag parent command
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Attach or detach tags on a lead",
	}
	cmd.AddCommand(tagChangeCmd("add", "Attach a tag to a lead", true))
	cmd.AddCommand(tagChangeCmd("remove", "Detach a tag from a lead", false))
	return cmd
}

func tagChangeCmd(use, short string, attach bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			return runTagChange(ctx, args, attach)
		}), handler.RequireString("id", "tag")),
	}

	cmd.Flags().String("id", "", "Lead ID (required)")
	cmd.Flags().String("tag", "", "Tag ID (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

type tagChange struct {
	CardID   string `json:"card_id"`
	TagID    string `json:"tag_id"`
	Attached bool   `json:"attached"`
}

// GetID implements cli.Identifier for quiet mode output
func (r *tagChange) GetID() string { return r.CardID }

func (r *tagChange) Render(w io.Writer) error {
	verb := "detached from"
	if r.Attached {
		verb = "attached to"
	}
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Tag %s %s lead %s", r.TagID, verb, r.CardID)))
	return err
}

func runTagChange(ctx context.Context, args *handler.Arguments, attach bool) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	cardID, tagID := args.GetString("id", ""), args.GetString("tag", "")
	if attach {
		err = c.App.Cards.AddTag(ctx, user.ID, cardID, tagID)
	} else {
		err = c.App.Cards.RemoveTag(ctx, user.ID, cardID, tagID)
	}
	if err != nil {
		return nil, err
	}
	return &tagChange{CardID: cardID, TagID: tagID, Attached: attach}, nil
}
