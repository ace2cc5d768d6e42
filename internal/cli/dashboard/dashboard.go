// Package dashboard renders the lead statistics in the terminal,
// e.g., motocrm dashboard
package dashboard

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	dashboardservice "github.com/motoloc/motocrm/internal/services/dashboard"
)

// barWidth is the length of the longest bar of a chart
const barWidth = 30

// DashboardCmd returns the dashboard command
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"stats"},
		Short:   "Show lead statistics",
		Long: `Show lead totals, charts per column, weekday, day and hour, and the most used tags.
The offsets count periods back from the current one.

Examples:
  motocrm dashboard --user=rider@example.com
  motocrm dashboard --week-offset=1 --month-offset=2
`,
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			summary, err := c.App.Dashboard.Summary(ctx, user.ID, dashboardservice.Options{
				WeekOffset:           args.GetInt("week-offset", 0),
				MonthOffset:          args.GetInt("month-offset", 0),
				QualifiedMonthOffset: args.GetInt("qualified-offset", 0),
			})
			if err != nil {
				return nil, err
			}
			return &summaryResult{summary}, nil
		})),
	}
	cmd.Flags().Int("week-offset", 0, "Weeks back for the weekday chart")
	cmd.Flags().Int("month-offset", 0, "Months back for the daily chart")
	cmd.Flags().Int("qualified-offset", 0, "Months back for the qualified leads chart")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

type summaryResult struct {
	*dashboardservice.Summary
}

// chartRow is one labelled bar
type chartRow struct {
	label string
	value int
	extra string
}

func renderChart(b *strings.Builder, title string, rows []chartRow) {
	b.WriteString(styles.SectionStyle.Render(title) + "\n")
	peak := 0
	for _, r := range rows {
		peak = max(peak, r.value)
	}
	if peak == 0 {
		b.WriteString(cli.Muted("  no leads") + "\n")
		return
	}
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.label, strconv.Itoa(r.value), styles.Bar(r.value, peak, barWidth) + r.extra}
	}
	b.WriteString(styles.Table([]string{"", "Leads", ""}, table) + "\n")
}

func (r *summaryResult) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Dashboard") + "\n")
	b.WriteString(styles.RenderField("Total leads", strconv.Itoa(r.TotalCards)) + "\n")
	b.WriteString(styles.RenderField("Created this week", strconv.Itoa(r.CreatedThisWeek)) + "\n")
	b.WriteString(styles.RenderField("Created this month", strconv.Itoa(r.CreatedThisMonth)) + "\n")
	b.WriteString(styles.RenderField("Tagged leads",
		fmt.Sprintf("%d (%d%%)", r.CardsWithTags, r.TagCoverage)) + "\n")

	rows := make([]chartRow, len(r.Columns))
	for i, c := range r.Columns {
		rows[i] = chartRow{c.Name, c.Count, fmt.Sprintf(" %.1f%%", c.Percentage)}
	}
	renderChart(&b, "Leads per column", rows)

	rows = make([]chartRow, len(r.WeeklyChart))
	for i, d := range r.WeeklyChart {
		rows[i] = chartRow{label: d.Label, value: d.Value}
	}
	renderChart(&b, "Week "+r.Week.Label, rows)

	renderChart(&b, r.Month.Label, dateRows(r.MonthlyChart))

	if r.QualifiedColumn != nil {
		renderChart(&b, fmt.Sprintf("%s in %s", r.QualifiedColumn.Name, r.QualifiedMonth.Label), dateRows(r.QualifiedChart))
	}

	rows = make([]chartRow, len(r.TopTags))
	for i, t := range r.TopTags {
		rows[i] = chartRow{label: styles.ColoredText(t.Name, t.Color), value: t.Count}
	}
	renderChart(&b, "Top tags", rows)

	rows = make([]chartRow, len(r.Hourly))
	for i, h := range r.Hourly {
		rows[i] = chartRow{label: h.Hour + "h", value: h.Value}
	}
	renderChart(&b, "Leads per hour", rows)

	b.WriteString(styles.SectionStyle.Render("Recent leads") + "\n")
	if len(r.Recent) == 0 {
		b.WriteString(cli.Muted("  no leads") + "\n")
	}
	for _, c := range r.Recent {
		fmt.Fprintf(&b, "  %s %s\n", c.Name, cli.Muted(c.CreatedAt.Format("02/01/2006 15:04")))
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

// dateRows keeps only the days with leads so month charts stay short
func dateRows(days []dashboardservice.DateCount) []chartRow {
	var rows []chartRow
	for _, d := range days {
		if d.Value > 0 {
			rows = append(rows, chartRow{label: d.Date, value: d.Value})
		}
	}
	return rows
}
