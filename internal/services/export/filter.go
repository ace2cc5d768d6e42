package export

import (
	"slices"
	"strings"
	"time"

	"github.com/motoloc/motocrm/internal/models"
)

// DateMode selects which creation dates a Filter accepts
type DateMode string

const (
	DateAll       DateMode = "all"
	DateLast7     DateMode = "last7"
	DateLast30    DateMode = "last30"
	DateThisMonth DateMode = "thisMonth"
	DateRange     DateMode = "range"
)

// Filter narrows the exported leads. Zero values disable a criterion.
type Filter struct {
	Date     DateMode   `json:"date"`
	Start    *time.Time `json:"start,omitempty"` // DateRange only, first day included
	End      *time.Time `json:"end,omitempty"`   // DateRange only, last day included
	Name     string     `json:"name"`
	Phone    string     `json:"phone"`
	ColumnID string     `json:"column_id"`
	TagIDs   []string   `json:"tag_ids"` // primary tag in set
}

// window resolves the date criterion to a half-open interval. A zero bound
// is open.
func (f Filter) window(now time.Time, loc *time.Location) (from, to time.Time, err error) {
	now = now.In(loc)
	switch f.Date {
	case "", DateAll:
		return time.Time{}, time.Time{}, nil
	case DateLast7:
		return now.AddDate(0, 0, -7), time.Time{}, nil
	case DateLast30:
		return now.AddDate(0, 0, -30), time.Time{}, nil
	case DateThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), time.Time{}, nil
	case DateRange:
		if f.Start == nil || f.End == nil {
			return from, to, ErrInvalidRange
		}
		from = startOfDay(*f.Start, loc)
		to = startOfDay(*f.End, loc).AddDate(0, 0, 1)
		if !from.Before(to) {
			return from, to, ErrInvalidRange
		}
		return from, to, nil
	default:
		return from, to, ErrInvalidDateMode
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Apply returns the cards matching the filter, keeping their order
func (f Filter) Apply(cards []*models.Card, now time.Time, loc *time.Location) ([]*models.Card, error) {
	from, to, err := f.window(now, loc)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(f.Name))
	phone := strings.ToLower(strings.TrimSpace(f.Phone))

	out := []*models.Card{}
	for _, c := range cards {
		if !from.IsZero() && c.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !c.CreatedAt.Before(to) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
			continue
		}
		if phone != "" && (c.Phone == nil || !strings.Contains(strings.ToLower(*c.Phone), phone)) {
			continue
		}
		if f.ColumnID != "" && c.ColumnID != f.ColumnID {
			continue
		}
		if len(f.TagIDs) > 0 && (c.TagID == nil || !slices.Contains(f.TagIDs, *c.TagID)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
