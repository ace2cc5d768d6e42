package column

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// MaxNameLength is the longest accepted column name, in characters
const MaxNameLength = 50

// Service defines all pipeline column business operations
type Service interface {
	// Read operations
	ListColumns(ctx context.Context, userID string) ([]*models.Column, error)
	GetColumn(ctx context.Context, userID, id string) (*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, userID, name string) (*models.Column, error)
	RenameColumn(ctx context.Context, userID, id, name string) error
	DeleteColumn(ctx context.Context, userID, id string) error
	MoveColumn(ctx context.Context, userID, id string, dir models.Direction) error
}

type service struct {
	repo        database.ColumnRepository
	eventClient events.EventPublisher
}

// NewService creates a new column service
func NewService(repo database.ColumnRepository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// ListColumns returns the user's columns ordered left to right
func (s *service) ListColumns(ctx context.Context, userID string) ([]*models.Column, error) {
	return s.repo.ListColumns(ctx, userID)
}

// GetColumn retrieves a specific column
func (s *service) GetColumn(ctx context.Context, userID, id string) (*models.Column, error) {
	if id == "" {
		return nil, ErrInvalidColumnID
	}
	col, err := s.repo.GetColumn(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return col, nil
}

// CreateColumn appends a new column to the right of the board
func (s *service) CreateColumn(ctx context.Context, userID, name string) (*models.Column, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	col, err := s.repo.CreateColumn(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	s.publishColumnEvent(userID, col.ID)
	return col, nil
}

// RenameColumn updates a column's name
func (s *service) RenameColumn(ctx context.Context, userID, id, name string) error {
	if id == "" {
		return ErrInvalidColumnID
	}
	name, err := validateName(name)
	if err != nil {
		return err
	}

	if err := s.repo.RenameColumn(ctx, userID, id, name); err != nil {
		return mapNotFound(err)
	}

	s.publishColumnEvent(userID, id)
	return nil
}

// DeleteColumn removes a column together with its cards
func (s *service) DeleteColumn(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrInvalidColumnID
	}
	if err := s.repo.DeleteColumn(ctx, userID, id); err != nil {
		return mapNotFound(err)
	}

	s.publishColumnEvent(userID, id)
	return nil
}

// MoveColumn swaps a column with its left or right neighbour
func (s *service) MoveColumn(ctx context.Context, userID, id string, dir models.Direction) error {
	if id == "" {
		return ErrInvalidColumnID
	}
	if !dir.Valid() {
		return ErrInvalidDirection
	}

	columns, err := s.repo.ListColumns(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}

	idx := -1
	for i, c := range columns {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrColumnNotFound
	}

	target := idx + 1
	if dir == models.DirectionLeft {
		target = idx - 1
	}
	switch {
	case target < 0:
		return models.ErrAlreadyFirstColumn
	case target >= len(columns):
		return models.ErrAlreadyLastColumn
	}

	if err := s.repo.SwapColumnPositions(ctx, userID, id, columns[target].ID); err != nil {
		return fmt.Errorf("failed to move column: %w", mapNotFound(err))
	}

	s.publishColumnEvent(userID, id)
	return nil
}

// validateName trims and checks a column name
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrColumnNotFound
	}
	return err
}

// publishColumnEvent publishes a column event
func (s *service) publishColumnEvent(userID, columnID string) {
	if s.eventClient == nil {
		return
	}
	slog.Debug("column changed", "user_id", userID, "column_id", columnID)
	events.NotifyChanged(s.eventClient, userID, events.EntityColumn, columnID)
}
