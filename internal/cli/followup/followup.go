// Package followup holds all cli commands related to the follow-up sequence
// and its contacts, e.g., motocrm followup ...
package followup

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
)

// FollowUpCmd returns the followup parent command
func FollowUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "followup",
		Aliases: []string{"fu"},
		Short:   "Configure follow-up messages and track contacts",
	}

	cmd.AddCommand(listCmd())
	cmd.AddCommand(updateCmd())
	cmd.AddCommand(toggleCmd())
	cmd.AddCommand(dueCmd())
	cmd.AddCommand(ContactCmd())

	return cmd
}

// stepResult wraps a single follow-up step for output
type stepResult struct {
	*models.FollowUp
	action string
}

// GetID implements cli.Identifier for quiet mode output
func (r *stepResult) GetID() string { return r.ID }

func (r *stepResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Follow-up #%d '%s' %s (%s, %d %s)",
		r.Idx, r.Name, r.action, cli.OnOff(r.Active), r.DelayValue, r.DelayUnit)))
	return err
}

// stepList wraps the ordered sequence for output
type stepList []*models.FollowUp

// IDs implements cli.IDLister for quiet mode output
func (l stepList) IDs() []string {
	ids := make([]string, len(l))
	for i, f := range l {
		ids[i] = f.ID
	}
	return ids
}

func (l stepList) Render(w io.Writer) error {
	rows := make([][]string, len(l))
	for i, f := range l {
		rows[i] = []string{
			strconv.Itoa(f.Idx), f.Name, fmt.Sprintf("%d %s", f.DelayValue, f.DelayUnit),
			cli.OnOff(f.Active), truncate(f.Message, 40), f.ID,
		}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"#", "Name", "Delay", "Status", "Message", "ID"}, rows))
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
