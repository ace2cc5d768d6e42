// Package column holds all cli commands related to board columns
// e.g., motocrm column ...
package column

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/models"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage board columns",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}

// columnResult wraps a single column for output
type columnResult struct {
	*models.Column
	action string
}

// GetID implements cli.Identifier for quiet mode output
func (r *columnResult) GetID() string { return r.ID }

func (r *columnResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Column '%s' %s (ID: %s)", r.Name, r.action, r.ID)))
	return err
}

// columnList wraps an ordered list of columns for output
type columnList []*models.Column

// IDs implements cli.IDLister for quiet mode output
func (l columnList) IDs() []string {
	ids := make([]string, len(l))
	for i, c := range l {
		ids[i] = c.ID
	}
	return ids
}

func (l columnList) Render(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No columns found")
		return err
	}
	if _, err := fmt.Fprintln(w, "Columns:"); err != nil {
		return err
	}
	for i, c := range l {
		if _, err := fmt.Fprintf(w, "  %d. %s %s\n", i+1, c.Name, cli.Muted("(ID: "+c.ID+")")); err != nil {
			return err
		}
	}
	return nil
}
