// Package export holds all cli commands related to lead reports
// e.g., motocrm export ...
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	exportservice "github.com/motoloc/motocrm/internal/services/export"
)

// ExportCmd returns the export parent command
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leads as CSV or PDF reports",
	}

	cmd.AddCommand(reportCmd("csv", "Export leads to a CSV file"))
	cmd.AddCommand(reportCmd("pdf", "Export leads to a PDF report"))
	cmd.AddCommand(countCmd())

	return cmd
}

// reportResult describes a written report
type reportResult struct {
	Path  string `json:"path"`
	Leads int    `json:"leads"`
}

// GetID implements cli.Identifier for quiet mode output
func (r *reportResult) GetID() string { return r.Path }

func (r *reportResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Exported %d leads to %s", r.Leads, r.Path)))
	return err
}

// countResult is the number of leads a filter selects
type countResult struct {
	Count int `json:"count"`
}

// GetID implements cli.Identifier for quiet mode output
func (r *countResult) GetID() string { return fmt.Sprint(r.Count) }

func (r *countResult) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d leads match the filters\n", r.Count)
	return err
}

// addFilterFlags registers the flags read by filterFromArgs
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", string(exportservice.DateAll), "Creation date filter: all, last7, last30, thisMonth or range")
	cmd.Flags().String("from", "", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last day of the range (YYYY-MM-DD)")
	cmd.Flags().String("name", "", "Only leads whose name contains this text")
	cmd.Flags().String("phone", "", "Only leads whose phone contains this text")
	cmd.Flags().String("column", "", "Only leads in this column ID")
	cmd.Flags().StringSlice("tag", nil, "Only leads whose primary tag is one of these IDs")
}

func filterFromArgs(args *handler.Arguments, loc *time.Location) (exportservice.Filter, error) {
	f := exportservice.Filter{
		Date:     exportservice.DateMode(args.GetString("date", string(exportservice.DateAll))),
		Name:     args.GetString("name", ""),
		Phone:    args.GetString("phone", ""),
		ColumnID: args.GetString("column", ""),
		TagIDs:   args.GetStringSlice("tag", nil),
	}
	for _, bound := range []struct {
		flag string
		dst  **time.Time
	}{{"from", &f.Start}, {"to", &f.End}} {
		v := args.GetString(bound.flag, "")
		if v == "" {
			continue
		}
		t, err := cli.ParseDate(v, loc)
		if err != nil {
			return f, cli.Exitf(cli.ExitValidation, "%s: %w", bound.flag, err)
		}
		*bound.dst = &t
	}
	return f, nil
}

func reportCmd(format, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   format,
		Short: short,
		Long: fmt.Sprintf(`%s. Without --out the file is written to the current
directory as leads_<date>_<time>.%s.

Examples:
  motocrm export %s --date=last30
  motocrm export %s --date=range --from=2025-01-01 --to=2025-01-31 --field=name --field=phone
  motocrm export %s --tag=<tag-id> --out=hot-leads.%s
`, short, format, format, format, format, format),
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			return runReport(ctx, args, format)
		})),
	}
	addFilterFlags(cmd)
	cmd.Flags().StringSlice("field", nil, "Lead fields to include: name, phone, visit_date, created_at, updated_at")
	cmd.Flags().String("out", "", "Destination file")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func runReport(ctx context.Context, args *handler.Arguments, format string) (any, error) {
	c, user, err := args.User(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := filterFromArgs(args, c.App.Location)
	if err != nil {
		return nil, err
	}
	fields, err := exportservice.ParseFields(args.GetStringSlice("field", nil))
	if err != nil {
		return nil, err
	}

	write := c.App.Export.CSV
	if format == "pdf" {
		write = c.App.Export.PDF
	}
	var buf bytes.Buffer
	n, err := write(ctx, &buf, user.ID, filter, fields)
	if err != nil {
		return nil, err
	}

	path := args.GetString("out", exportservice.FileName(time.Now().In(c.App.Location), format))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return &reportResult{Path: path, Leads: n}, nil
}

func countCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the leads an export would include",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			filter, err := filterFromArgs(args, c.App.Location)
			if err != nil {
				return nil, err
			}
			n, err := c.App.Export.Count(ctx, user.ID, filter)
			if err != nil {
				return nil, err
			}
			return &countResult{Count: n}, nil
		})),
	}
	addFilterFlags(cmd)
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}
