package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/motoloc/motocrm/internal/database"
)

// Repository is the storage the export reads
type Repository interface {
	database.CardReader
	database.ColumnReader
}

// Service produces lead reports
type Service interface {
	Count(ctx context.Context, userID string, filter Filter) (int, error)
	Table(ctx context.Context, userID string, filter Filter, fields []Field) (*Table, error)
	CSV(ctx context.Context, w io.Writer, userID string, filter Filter, fields []Field) (int, error)
	PDF(ctx context.Context, w io.Writer, userID string, filter Filter, fields []Field) (int, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService creates an export service that formats dates in loc
func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, now: time.Now}
}

// Count returns how many leads the filter selects
func (s *service) Count(ctx context.Context, userID string, filter Filter) (int, error) {
	cards, err := s.repo.ListCards(ctx, userID, database.CardFilter{ColumnID: filter.ColumnID})
	if err != nil {
		return 0, fmt.Errorf("failed to load cards: %w", err)
	}
	matched, err := filter.Apply(cards, s.now(), s.loc)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Table loads and lays out the selected leads. An empty selection is
// ErrNoLeads.
func (s *service) Table(ctx context.Context, userID string, filter Filter, fields []Field) (*Table, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, f := range fields {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, f)
		}
	}

	cards, err := s.repo.ListCards(ctx, userID, database.CardFilter{ColumnID: filter.ColumnID})
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	matched, err := filter.Apply(cards, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, ErrNoLeads
	}

	cols, err := s.repo.ListColumns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	names := make(map[string]string, len(cols))
	for _, c := range cols {
		names[c.ID] = c.Name
	}

	return BuildTable(matched, fields, names, s.loc), nil
}

// CSV writes the report as CSV and returns the number of leads
func (s *service) CSV(ctx context.Context, w io.Writer, userID string, filter Filter, fields []Field) (int, error) {
	t, err := s.Table(ctx, userID, filter, fields)
	if err != nil {
		return 0, err
	}
	return len(t.Rows), WriteCSV(w, t)
}

// PDF writes the report as PDF and returns the number of leads
func (s *service) PDF(ctx context.Context, w io.Writer, userID string, filter Filter, fields []Field) (int, error) {
	t, err := s.Table(ctx, userID, filter, fields)
	if err != nil {
		return 0, err
	}
	return len(t.Rows), WritePDF(w, t, s.now().In(s.loc))
}
