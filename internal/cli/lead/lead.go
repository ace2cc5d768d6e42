// Package lead holds all cli commands related to lead cards
// e.g., motocrm lead ...
package lead

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
)

// LeadCmd returns the lead parent command
func LeadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lead",
		Aliases: []string{"card"},
		Short:   "Manage lead cards on the board",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(TagCmd())

	return cmd
}

// columnNames maps column IDs to names for display
func columnNames(ctx context.Context, c *cli.CLI, userID string) (map[string]string, error) {
	cols, err := c.App.Columns.ListColumns(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cols))
	for _, col := range cols {
		names[col.ID] = col.Name
	}
	return names, nil
}

// leadResult wraps a single card for output
type leadResult struct {
	*models.Card
	ColumnName string `json:"column_name"`
	action     string
}

// GetID implements cli.Identifier for quiet mode output
func (r *leadResult) GetID() string { return r.ID }

func (r *leadResult) Render(w io.Writer) error {
	if r.action != "" {
		_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Lead '%s' %s (ID: %s)", r.Name, r.action, r.ID)))
		return err
	}

	lines := []string{
		styles.TitleStyle.Render(r.Name),
		styles.SubtitleStyle.Render("ID: " + r.ID),
		"",
		styles.RenderField("Column", r.ColumnName),
		styles.RenderField("Phone", cli.Deref(r.Phone, "-")),
		styles.RenderField("Visit", cli.Deref(r.VisitDate, "-")),
		styles.RenderField("Created", r.CreatedAt.Format("02/01/2006 15:04")),
		styles.RenderField("Updated", r.UpdatedAt.Format("02/01/2006 15:04")),
	}
	if r.Tag != nil {
		lines = append(lines, styles.RenderField("Primary tag", styles.RenderTagChip(r.Tag)))
	}
	if len(r.Tags) > 0 {
		lines = append(lines, styles.SectionStyle.Render("Tags"), renderChips(r.Tags))
	}
	_, err := fmt.Fprintln(w, styles.RenderCard(strings.Join(lines, "\n")))
	return err
}

func renderChips(tags []*models.Tag) string {
	chips := make([]string, len(tags))
	for i, t := range tags {
		chips[i] = styles.RenderTagChip(t)
	}
	return strings.Join(chips, " ")
}

// leadList wraps a list of cards for output
type leadList struct {
	Cards   []*models.Card `json:"cards"`
	columns map[string]string
}

// IDs implements cli.IDLister for quiet mode output
func (l *leadList) IDs() []string {
	ids := make([]string, len(l.Cards))
	for i, c := range l.Cards {
		ids[i] = c.ID
	}
	return ids
}

func (l *leadList) Render(w io.Writer) error {
	if len(l.Cards) == 0 {
		_, err := fmt.Fprintln(w, "No leads found")
		return err
	}
	rows := make([][]string, len(l.Cards))
	for i, c := range l.Cards {
		rows[i] = []string{c.Name, cli.Deref(c.Phone, "-"), l.columns[c.ColumnID], cli.Deref(c.VisitDate, "-"), renderChips(c.Tags), c.ID}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"Name", "Phone", "Column", "Visit", "Tags", "ID"}, rows))
	return err
}
