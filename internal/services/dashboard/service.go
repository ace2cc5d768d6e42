package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/models"
)

// Repository is the storage the dashboard reads
type Repository interface {
	database.ColumnReader
	database.CardReader
	database.TagReader
	ListAllCardTags(ctx context.Context, userID string) ([]*models.CardTag, error)
}

// Service computes dashboards
type Service interface {
	Summary(ctx context.Context, userID string, opts Options) (*Summary, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a dashboard service reporting in loc
func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, now: time.Now}
}

// Summary loads the user's board and aggregates it
func (s *service) Summary(ctx context.Context, userID string, opts Options) (*Summary, error) {
	var in Input
	var err error

	if in.Columns, err = s.repo.ListColumns(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	if in.Cards, err = s.repo.ListCards(ctx, userID, database.CardFilter{}); err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	if in.Tags, err = s.repo.ListTags(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if in.CardTags, err = s.repo.ListAllCardTags(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load card tags: %w", err)
	}

	return Compute(in, s.now(), s.loc, opts), nil
}
