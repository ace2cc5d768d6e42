// Package tag holds all cli commands related to tags
// e.g., motocrm tag ...
package tag

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
	tagservice "github.com/motoloc/motocrm/internal/services/tag"
)

// TagCmd returns the tag parent command
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage lead tags",
	}

	cmd.AddCommand(listCmd())
	cmd.AddCommand(createCmd())
	cmd.AddCommand(updateCmd())
	cmd.AddCommand(deleteCmd())

	return cmd
}

// tagResult wraps a single tag for output
type tagResult struct {
	*models.Tag
	action string
}

// GetID implements cli.Identifier for quiet mode output
func (r *tagResult) GetID() string { return r.ID }

func (r *tagResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Tag %s %s (%s, ID: %s)",
		styles.RenderTagChip(r.Tag), r.action, r.Color, r.ID)))
	return err
}

// tagList wraps a list of tags for output
type tagList []*models.Tag

// IDs implements cli.IDLister for quiet mode output
func (l tagList) IDs() []string {
	ids := make([]string, len(l))
	for i, t := range l {
		ids[i] = t.ID
	}
	return ids
}

func (l tagList) Render(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No tags found")
		return err
	}
	rows := make([][]string, len(l))
	for i, t := range l {
		rows[i] = []string{styles.RenderTagChip(t), t.Color, t.ID}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"Tag", "Color", "ID"}, rows))
	return err
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags by name",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			tags, err := c.App.Tags.ListTags(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			return tagList(tags), nil
		})),
	}
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		Long: `Create a tag with a name and an optional color.

Examples:
  motocrm tag create --name="VIP" --color="#FF0000"
  TAG_ID=$(motocrm tag create --name="Test ride" --quiet)
`,
		RunE: handler.Command(handler.HandlerFunc(runCreate), parseTagFlags(true)),
	}
	cmd.Flags().String("name", "", "Tag name (required)")
	cmd.Flags().String("color", "", "Tag color in hex format #RRGGBB")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func parseTagFlags(requireName bool) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		if requireName {
			if _, err := handler.ParseString(cmd, "name"); err != nil {
				return err
			}
		}
		_, err := handler.ParseColor(cmd, "color")
		return err
	}
}

func runCreate(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	created, err := c.App.Tags.CreateTag(ctx, tagservice.CreateTagRequest{
		UserID: user.ID,
		Name:   args.GetString("name", ""),
		Color:  args.GetString("color", ""),
	})
	if err != nil {
		return nil, err
	}
	return &tagResult{Tag: created, action: "created"}, nil
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename or recolor a tag",
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			updated, err := c.App.Tags.UpdateTag(ctx, tagservice.UpdateTagRequest{
				UserID: user.ID,
				ID:     args.GetString("id", ""),
				Name:   args.OptionalString("name"),
				Color:  args.OptionalString("color"),
			})
			if err != nil {
				return nil, err
			}
			return &tagResult{Tag: updated, action: "updated"}, nil
		}), func(cmd *cobra.Command) error {
			if _, err := handler.ParseString(cmd, "id"); err != nil {
				return err
			}
			return parseTagFlags(false)(cmd)
		}),
	}
	cmd.Flags().String("id", "", "Tag ID (required)")
	cmd.Flags().String("name", "", "New tag name")
	cmd.Flags().String("color", "", "New color in hex format #RRGGBB")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a tag and detach it from every lead",
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			id := args.GetString("id", "")
			got, err := c.App.Tags.GetTag(ctx, user.ID, id)
			if err != nil {
				return nil, err
			}
			if err := c.App.Tags.DeleteTag(ctx, user.ID, id); err != nil {
				return nil, err
			}
			return &tagResult{Tag: got, action: "deleted"}, nil
		}), handler.RequireString("id")),
	}
	cmd.Flags().String("id", "", "Tag ID (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}
