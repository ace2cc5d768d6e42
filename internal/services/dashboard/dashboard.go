package dashboard

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/motoloc/motocrm/internal/models"
)

// RecentLimit and TopTagsLimit size the short lists of the summary
const (
	RecentLimit  = 5
	TopTagsLimit = 5
)

// WeekdayLabels are the weekly chart buckets, Monday first
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HourPalette colors the 24 buckets of the hourly distribution
var HourPalette = []string{
	"#1d4ed8", "#1e40af", "#1e3a8a", "#172554",
	"#ea580c", "#c2410c", "#9a3412", "#7c2d12",
	"#16a34a", "#15803d", "#166534", "#14532d",
	"#9333ea", "#7e22ce", "#6b21a8", "#581c87",
	"#eab308", "#ca8a04", "#a16207", "#854d0e",
	"#db2777", "#be185d", "#9d174d", "#831843",
}

// Options selects the periods of the charts, counted back from the current one
type Options struct {
	WeekOffset           int
	MonthOffset          int
	QualifiedMonthOffset int
}

// Input is everything the summary is computed from
type Input struct {
	Columns  []*models.Column
	Cards    []*models.Card
	Tags     []*models.Tag
	CardTags []*models.CardTag
}

// Range is a half-open period [Start, End)
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether t falls inside the range
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

type ColumnCount struct {
	ColumnID   string  `json:"column_id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // one decimal
}

type DayCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type DateCount struct {
	Date  string `json:"date"`  // YYYY-MM-DD
	Label string `json:"label"` // day of month, "01".."31"
	Value int    `json:"value"`
}

type TagUsage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  string `json:"hour"` // "00".."23"
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

// Summary is the dashboard of one user
type Summary struct {
	TotalCards int           `json:"total_cards"`
	Columns    []ColumnCount `json:"columns"`

	CreatedThisWeek  int `json:"created_this_week"`
	CreatedThisMonth int `json:"created_this_month"`

	Week         Range       `json:"week"`
	WeeklyChart  []DayCount  `json:"weekly_chart"`
	Month        Range       `json:"month"`
	MonthlyChart []DateCount `json:"monthly_chart"`

	QualifiedColumn *models.Column `json:"qualified_column,omitempty"`
	QualifiedMonth  Range          `json:"qualified_month"`
	QualifiedChart  []DateCount    `json:"qualified_chart"`

	CardsWithTags int        `json:"cards_with_tags"`
	TagCoverage   int        `json:"tag_coverage"` // percent, rounded
	TopTags       []TagUsage `json:"top_tags"`

	Hourly []HourCount    `json:"hourly"`
	Recent []*models.Card `json:"recent"`
}

// WeekRange returns the Monday-based week offset weeks before the one
// containing now, in loc
func WeekRange(now time.Time, loc *time.Location, offset int) Range {
	now = now.In(loc)
	sinceMonday := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-sinceMonday-7*max(offset, 0), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 7)
	return Range{
		Start: start,
		End:   end,
		Label: start.Format("02 Jan 2006") + " - " + end.Add(-time.Nanosecond).Format("02 Jan 2006"),
	}
}

// MonthRange returns the calendar month offset months before the one
// containing now, in loc
func MonthRange(now time.Time, loc *time.Location, offset int) Range {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month()-time.Month(max(offset, 0)), 1, 0, 0, 0, 0, loc)
	return Range{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: start.Format("January 2006"),
	}
}

// Compute builds the summary at time now
func Compute(in Input, now time.Time, loc *time.Location, opts Options) *Summary {
	if loc == nil {
		loc = time.UTC
	}
	s := &Summary{
		TotalCards:     len(in.Cards),
		Week:           WeekRange(now, loc, opts.WeekOffset),
		Month:          MonthRange(now, loc, opts.MonthOffset),
		QualifiedMonth: MonthRange(now, loc, opts.QualifiedMonthOffset),
	}

	s.Columns = countByColumn(in.Columns, in.Cards)

	thisWeek := WeekRange(now, loc, 0)
	thisMonth := MonthRange(now, loc, 0)
	for _, c := range in.Cards {
		if thisWeek.Contains(c.CreatedAt) {
			s.CreatedThisWeek++
		}
		if thisMonth.Contains(c.CreatedAt) {
			s.CreatedThisMonth++
		}
	}

	s.WeeklyChart = weeklyCounts(in.Cards, s.Week, loc)
	s.MonthlyChart = dailyCounts(in.Cards, s.Month, loc)

	s.QualifiedChart = []DateCount{}
	if col := QualifiedColumn(in.Columns); col != nil {
		s.QualifiedColumn = col
		var qualified []*models.Card
		for _, c := range in.Cards {
			if c.ColumnID == col.ID {
				qualified = append(qualified, c)
			}
		}
		s.QualifiedChart = dailyCounts(qualified, s.QualifiedMonth, loc)
	}

	s.CardsWithTags = tagCoverage(in.Cards, in.CardTags)
	if s.TotalCards > 0 {
		s.TagCoverage = int(math.Round(float64(s.CardsWithTags) / float64(s.TotalCards) * 100))
	}
	s.TopTags = topTags(in.Tags, in.Cards, in.CardTags)
	s.Hourly = hourly(in.Cards, loc)
	s.Recent = recent(in.Cards)
	return s
}

// QualifiedColumn returns the lowest-positioned column whose name marks it
// as the qualified-leads stage, or nil
func QualifiedColumn(cols []*models.Column) *models.Column {
	var found *models.Column
	for _, col := range cols {
		if !strings.Contains(strings.ToLower(col.Name), models.QualifiedColumnMarker) {
			continue
		}
		if found == nil || col.Position < found.Position {
			found = col
		}
	}
	return found
}

func countByColumn(cols []*models.Column, cards []*models.Card) []ColumnCount {
	counts := make(map[string]int, len(cols))
	for _, c := range cards {
		counts[c.ColumnID]++
	}

	sorted := make([]*models.Column, len(cols))
	copy(sorted, cols)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	out := make([]ColumnCount, 0, len(sorted))
	for _, col := range sorted {
		cc := ColumnCount{ColumnID: col.ID, Name: col.Name, Count: counts[col.ID]}
		if len(cards) > 0 {
			cc.Percentage = math.Round(float64(cc.Count)/float64(len(cards))*1000) / 10
		}
		out = append(out, cc)
	}
	return out
}

func weeklyCounts(cards []*models.Card, week Range, loc *time.Location) []DayCount {
	out := make([]DayCount, len(WeekdayLabels))
	for i, l := range WeekdayLabels {
		out[i].Label = l
	}
	for _, c := range cards {
		if !week.Contains(c.CreatedAt) {
			continue
		}
		day := (int(c.CreatedAt.In(loc).Weekday()) + 6) % 7
		out[day].Value++
	}
	return out
}

func dailyCounts(cards []*models.Card, month Range, loc *time.Location) []DateCount {
	counts := make(map[string]int)
	for _, c := range cards {
		if month.Contains(c.CreatedAt) {
			counts[c.CreatedAt.In(loc).Format("2006-01-02")]++
		}
	}

	out := make([]DateCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DateCount{Date: date, Label: date[8:], Value: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func tagCoverage(cards []*models.Card, links []*models.CardTag) int {
	tagged := make(map[string]struct{})
	for _, c := range cards {
		if c.TagID != nil {
			tagged[c.ID] = struct{}{}
		}
	}
	for _, l := range links {
		tagged[l.CardID] = struct{}{}
	}
	return len(tagged)
}

func topTags(tags []*models.Tag, cards []*models.Card, links []*models.CardTag) []TagUsage {
	counts := make(map[string]int)
	for _, c := range cards {
		if c.TagID != nil {
			counts[*c.TagID]++
		}
	}
	for _, l := range links {
		counts[l.TagID]++
	}

	byID := make(map[string]*models.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	out := make([]TagUsage, 0, len(counts))
	for id, n := range counts {
		u := TagUsage{ID: id, Name: models.UnknownTagName, Color: models.UnknownTagColor, Count: n}
		if t, ok := byID[id]; ok {
			u.Name, u.Color = t.Name, t.Color
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > TopTagsLimit {
		out = out[:TopTagsLimit]
	}
	return out
}

func hourly(cards []*models.Card, loc *time.Location) []HourCount {
	out := make([]HourCount, 24)
	for h := range out {
		out[h] = HourCount{
			Hour: time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15"),
			Fill: HourPalette[h%len(HourPalette)],
		}
	}
	for _, c := range cards {
		out[c.CreatedAt.In(loc).Hour()].Value++
	}
	return out
}

func recent(cards []*models.Card) []*models.Card {
	sorted := make([]*models.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}
