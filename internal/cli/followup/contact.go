package followup

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
	followupservice "github.com/motoloc/motocrm/internal/services/followup"
)

// ContactCmd returns the followup contact parent command
func ContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Track the contacts in the follow-up sequence",
	}
	cmd.AddCommand(contactListCmd())
	cmd.AddCommand(contactAddCmd())
	cmd.AddCommand(contactSentCmd())
	cmd.AddCommand(contactFinishCmd())
	return cmd
}

// contactResult wraps a single contact for output
type contactResult struct {
	*models.Contact
	action string
}

// GetID implements cli.Identifier for quiet mode output
func (r *contactResult) GetID() string { return r.ID }

func (r *contactResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Contact %s %s (ID: %s)", r.Phone, r.action, r.ID)))
	return err
}

// contactList wraps a list of contacts for output
type contactList []*models.Contact

// IDs implements cli.IDLister for quiet mode output
func (l contactList) IDs() []string {
	ids := make([]string, len(l))
	for i, c := range l {
		ids[i] = c.ID
	}
	return ids
}

func (l contactList) Render(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No contacts found")
		return err
	}
	rows := make([][]string, len(l))
	for i, c := range l {
		state := strconv.Itoa(c.LastFollowIdx) + " sent"
		if c.Finished {
			state = "finished"
		}
		rows[i] = []string{c.Name, c.Phone, state, c.LastContactAt.Local().Format("02/01/2006 15:04"), c.ID}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"Name", "Phone", "Progress", "Last contact", "ID"}, rows))
	return err
}

func contactListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, most recent first",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			list, err := c.App.FollowUps.ListContacts(ctx, user.ID, args.GetBool("open"))
			if err != nil {
				return nil, err
			}
			return contactList(list), nil
		})),
	}
	cmd.Flags().Bool("open", false, "Only contacts still in the sequence")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func contactAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a contact or refresh its last contact time",
		Long: `Register a phone for follow-ups. An existing phone has its last contact
time reset to now.

Examples:
  motocrm followup contact add --phone=5511999990000 --name="Ana" --lead=<lead-id>
`,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			contact, err := c.App.FollowUps.UpsertContact(ctx, followupservice.UpsertContactRequest{
				UserID:   user.ID,
				Phone:    args.GetString("phone", ""),
				Name:     args.GetString("name", ""),
				WhatsApp: args.OptionalString("whatsapp"),
				CardID:   args.OptionalString("lead"),
			})
			if err != nil {
				return nil, err
			}
			return &contactResult{Contact: contact, action: "saved"}, nil
		}), handler.RequireString("phone")),
	}
	cmd.Flags().String("phone", "", "Phone number (required)")
	cmd.Flags().String("name", "", "Contact name")
	cmd.Flags().String("whatsapp", "", "WhatsApp chat ID")
	cmd.Flags().String("lead", "", "Linked lead ID")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func contactSentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sent",
		Short: "Record that a follow-up step was sent",
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			id := args.GetString("id", "")
			if err := c.App.FollowUps.MarkSent(ctx, user.ID, id, args.GetInt("idx", 0), time.Now()); err != nil {
				return nil, err
			}
			contact, err := c.App.Repo().GetContact(ctx, user.ID, id)
			if err != nil {
				return nil, err
			}
			return &contactResult{Contact: contact, action: fmt.Sprintf("marked step %d sent", contact.LastFollowIdx)}, nil
		}), handler.RequireString("id")),
	}
	cmd.Flags().String("id", "", "Contact ID (required)")
	cmd.Flags().Int("idx", 0, "Step number that was sent (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func contactFinishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Stop the follow-up sequence for a contact",
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			id := args.GetString("id", "")
			if err := c.App.FollowUps.FinishContact(ctx, user.ID, id); err != nil {
				return nil, err
			}
			contact, err := c.App.Repo().GetContact(ctx, user.ID, id)
			if err != nil {
				return nil, err
			}
			return &contactResult{Contact: contact, action: "finished"}, nil
		}), handler.RequireString("id")),
	}
	cmd.Flags().String("id", "", "Contact ID (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}
