// Package chat holds all cli commands related to the assistant's chat log
// e.g., motocrm chat ...
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
	chatservice "github.com/motoloc/motocrm/internal/services/chat"
)

// timeLayout formats message times in listings and transcripts
const timeLayout = "02/01/2006 15:04"

// ChatCmd returns the chat parent command
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Browse the conversations of the WhatsApp assistant",
	}

	cmd.AddCommand(sessionsCmd())
	cmd.AddCommand(showCmd())
	cmd.AddCommand(logCmd())

	return cmd
}

// sessionList wraps the conversation summaries for output
type sessionList []*models.ChatSession

// IDs implements cli.IDLister for quiet mode output
func (l sessionList) IDs() []string {
	ids := make([]string, len(l))
	for i, s := range l {
		ids[i] = s.SessionID
	}
	return ids
}

func (l sessionList) Render(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No conversations yet")
		return err
	}
	rows := make([][]string, len(l))
	for i, s := range l {
		rows[i] = []string{
			s.PhoneNumber, strconv.Itoa(s.MessageCount), s.LastActivity.Format(timeLayout),
			truncate(strings.Join(strings.Fields(s.LastMessage), " "), 50),
		}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"Phone", "Messages", "Last activity", "Last message"}, rows))
	return err
}

// transcript renders one conversation as markdown
type transcript struct {
	*models.ChatSession
}

// GetID implements cli.Identifier for quiet mode output
func (t *transcript) GetID() string { return t.SessionID }

func (t *transcript) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", t.PhoneNumber)
	for _, m := range t.Messages {
		fmt.Fprintf(&b, "**%s** _%s_\n\n%s\n\n", chatservice.MessageRole(m.Message),
			m.CreatedAt.Format(timeLayout), chatservice.MessageText(m.Message))
	}
	return b.String()
}

func (t *transcript) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, styles.Markdown(t.Markdown(), styles.CardWidth))
	return err
}

// messageResult reports an appended message
type messageResult struct {
	*models.ChatMessage
}

// GetID implements cli.Identifier for quiet mode output
func (r *messageResult) GetID() string { return strconv.FormatInt(r.ID, 10) }

func (r *messageResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Message %d logged to %s", r.ID, r.SessionID)))
	return err
}

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List conversations, most recent first",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, err := args.CLI(ctx)
			if err != nil {
				return nil, err
			}
			sessions, err := c.App.Chat.Sessions(ctx)
			if err != nil {
				return nil, err
			}
			return sessionList(sessions), nil
		})),
	}
	handler.AddOutputFlags(cmd)
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the transcript of a conversation",
		Long: `Show every message of a conversation, oldest first.

Examples:
  motocrm chat show --session=5511999990000@s.whatsapp.net
`,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, err := args.CLI(ctx)
			if err != nil {
				return nil, err
			}
			session, err := c.App.Chat.Session(ctx, args.GetString("session", ""))
			if err != nil {
				return nil, err
			}
			return &transcript{session}, nil
		}), handler.RequireString("session")),
	}
	cmd.Flags().String("session", "", "Session ID (required)")
	handler.AddOutputFlags(cmd)
	return cmd
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append a message to a conversation",
		Long: `Append a message to the chat log. --text logs plain text, --message a raw JSON payload.

Examples:
  motocrm chat log --session=5511999990000@s.whatsapp.net --text="Is the CB 500 still available?"
  motocrm chat log --session=5511999990000@s.whatsapp.net --message='{"role":"ai","content":"Yes!"}'
`,
		RunE: handler.Command(handler.HandlerFunc(runLog), parseLogFlags),
	}
	cmd.Flags().String("session", "", "Session ID (required)")
	cmd.Flags().String("text", "", "Plain text message")
	cmd.Flags().String("message", "", "JSON message payload")
	handler.AddOutputFlags(cmd)
	return cmd
}

func parseLogFlags(cmd *cobra.Command) error {
	if _, err := handler.ParseString(cmd, "session"); err != nil {
		return err
	}
	text := cmd.Flags().Changed("text")
	message := cmd.Flags().Changed("message")
	if text == message {
		return errors.New("exactly one of --text or --message is required")
	}
	return nil
}

func runLog(ctx context.Context, args *handler.Arguments) (any, error) {
	c, err := args.CLI(ctx)
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(args.GetString("message", ""))
	if args.Has("text") {
		raw, err = json.Marshal(args.GetString("text", ""))
		if err != nil {
			return nil, err
		}
	}
	m, err := c.App.Chat.Append(ctx, args.GetString("session", ""), raw)
	if err != nil {
		return nil, err
	}
	return &messageResult{m}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
