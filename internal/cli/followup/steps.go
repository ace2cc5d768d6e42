package followup

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
	followupservice "github.com/motoloc/motocrm/internal/services/followup"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the follow-up steps in order",
		Long: `List the follow-up sequence. The default steps are created on first use.

Examples:
  motocrm followup list --user=rider@example.com
`,
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			steps, err := c.App.FollowUps.ListFollowUps(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			return stepList(steps), nil
		})),
	}
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit a follow-up step",
		Long: `Edit the name, message or delay of a step. Only the flags given change.

Examples:
  motocrm followup update --id=<step-id> --message="Still thinking about the bike?"
  motocrm followup update --id=<step-id> --delay=30 --unit=minutes
`,
		RunE: handler.Command(handler.HandlerFunc(runUpdate), handler.RequireString("id")),
	}
	cmd.Flags().String("id", "", "Follow-up ID (required)")
	cmd.Flags().String("name", "", "Step name")
	cmd.Flags().String("message", "", "Message text")
	cmd.Flags().Int("delay", 0, "Delay value")
	cmd.Flags().String("unit", "", "Delay unit: minutes or days")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(ctx context.Context, args *handler.Arguments) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	req := followupservice.UpdateFollowUpRequest{
		UserID:     user.ID,
		ID:         args.GetString("id", ""),
		Name:       args.OptionalString("name"),
		Message:    args.OptionalString("message"),
		DelayValue: args.OptionalInt("delay"),
	}
	if unit := args.OptionalString("unit"); unit != nil {
		u := models.DelayUnit(*unit)
		req.DelayUnit = &u
	}
	updated, err := c.App.FollowUps.UpdateFollowUp(ctx, req)
	if err != nil {
		return nil, err
	}
	return &stepResult{FollowUp: updated, action: "updated"}, nil
}

func toggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Switch a step between active and inactive",
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			toggled, err := c.App.FollowUps.ToggleFollowUp(ctx, user.ID, args.GetString("id", ""))
			if err != nil {
				return nil, err
			}
			return &stepResult{FollowUp: toggled, action: "toggled"}, nil
		}), handler.RequireString("id")),
	}
	cmd.Flags().String("id", "", "Follow-up ID (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

// dueList wraps the due follow-ups for output
type dueList []*models.DueFollowUp

// IDs implements cli.IDLister, listing contact IDs
func (l dueList) IDs() []string {
	ids := make([]string, len(l))
	for i, d := range l {
		ids[i] = d.Contact.ID
	}
	return ids
}

func (l dueList) Render(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No follow-ups due")
		return err
	}
	rows := make([][]string, len(l))
	for i, d := range l {
		rows[i] = []string{
			d.Contact.Name, d.Contact.Phone, fmt.Sprintf("#%d %s", d.FollowUp.Idx, d.FollowUp.Name),
			d.DueAt.Local().Format("02/01/2006 15:04"), d.Contact.ID,
		}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"Contact", "Phone", "Step", "Due", "Contact ID"}, rows))
	return err
}

func dueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List contacts whose next follow-up is due",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			due, err := c.App.FollowUps.Due(ctx, user.ID, time.Now())
			if err != nil {
				return nil, err
			}
			return dueList(due), nil
		})),
	}
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}
