package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// MaxNameLength is the longest accepted lead name, in characters
const MaxNameLength = 120

// VisitDateLayout is the format of Card.VisitDate
const VisitDateLayout = "2006-01-02"

// Repository is the storage the card service needs
type Repository interface {
	database.CardRepository
	database.ColumnReader
	database.TagReader
}

// Service defines all lead card business operations
type Service interface {
	// Read operations
	ListCards(ctx context.Context, userID string, req ListCardsRequest) ([]*models.Card, error)
	GetCard(ctx context.Context, userID, id string) (*models.Card, error)

	// Write operations
	CreateCard(ctx context.Context, req CreateCardRequest) (*models.Card, error)
	UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error)
	MoveCard(ctx context.Context, userID, id, columnID string) (*models.Card, error)
	MoveCardDirection(ctx context.Context, userID, id string, dir models.Direction) (*models.Card, error)
	DeleteCard(ctx context.Context, userID, id string) error

	// Tag associations
	AddTag(ctx context.Context, userID, cardID, tagID string) error
	RemoveTag(ctx context.Context, userID, cardID, tagID string) error
	ListCardTags(ctx context.Context, userID, cardID string) ([]*models.Tag, error)
	CardTagMap(ctx context.Context, userID string) (map[string][]string, error)
}

// ListCardsRequest filters the board
type ListCardsRequest struct {
	Search   string
	TagID    string
	ColumnID string
}

// CreateCardRequest encapsulates data for creating a card
type CreateCardRequest struct {
	UserID    string
	ColumnID  string
	Name      string
	Phone     *string
	TagID     *string
	VisitDate *string  // YYYY-MM-DD
	TagIDs    []string // Associated tags
}

// UpdateCardRequest encapsulates data for updating a card.
// Nil fields keep their current value; an empty string clears an optional
// field.
type UpdateCardRequest struct {
	UserID    string
	ID        string
	Name      *string
	Phone     *string
	TagID     *string
	VisitDate *string
	ColumnID  *string
}

type service struct {
	repo        Repository
	eventClient events.EventPublisher
}

// NewService creates a new card service
func NewService(repo Repository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// ListCards returns the user's cards, newest first
func (s *service) ListCards(ctx context.Context, userID string, req ListCardsRequest) ([]*models.Card, error) {
	return s.repo.ListCards(ctx, userID, database.CardFilter{
		Search:   req.Search,
		TagID:    req.TagID,
		ColumnID: req.ColumnID,
	})
}

// GetCard retrieves a card with its tags
func (s *service) GetCard(ctx context.Context, userID, id string) (*models.Card, error) {
	if id == "" {
		return nil, ErrInvalidCardID
	}
	c, err := s.repo.GetCard(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCardNotFound)
	}
	return c, nil
}

// CreateCard validates and persists a new lead
func (s *service) CreateCard(ctx context.Context, req CreateCardRequest) (*models.Card, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if req.ColumnID == "" {
		return nil, ErrInvalidColumnID
	}
	if err := s.checkColumn(ctx, req.UserID, req.ColumnID); err != nil {
		return nil, err
	}

	c := &models.Card{
		UserID:   req.UserID,
		ColumnID: req.ColumnID,
		Name:     name,
		Phone:    normalizeOptional(req.Phone),
		TagID:    normalizeOptional(req.TagID),
	}
	if c.VisitDate, err = validateVisitDate(req.VisitDate); err != nil {
		return nil, err
	}
	if c.TagID != nil {
		if err := s.checkTag(ctx, req.UserID, *c.TagID); err != nil {
			return nil, err
		}
	}
	for _, tagID := range req.TagIDs {
		if err := s.checkTag(ctx, req.UserID, tagID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateCard(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	for _, tagID := range req.TagIDs {
		if err := s.repo.AddCardTag(ctx, req.UserID, c.ID, tagID); err != nil {
			slog.Error("failed to associate tag", "card_id", c.ID, "tag_id", tagID, "error", err)
			return nil, fmt.Errorf("failed to associate tag: %w", err)
		}
	}

	s.publishCardEvent(req.UserID, c.ID)
	return s.GetCard(ctx, req.UserID, c.ID)
}

// UpdateCard applies the non-nil fields of req
func (s *service) UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error) {
	if req.ID == "" {
		return nil, ErrInvalidCardID
	}
	c, err := s.repo.GetCard(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, mapNotFound(err, ErrCardNotFound)
	}

	if req.Name != nil {
		if c.Name, err = validateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		c.Phone = normalizeOptional(req.Phone)
	}
	if req.VisitDate != nil {
		if c.VisitDate, err = validateVisitDate(req.VisitDate); err != nil {
			return nil, err
		}
	}
	if req.TagID != nil {
		c.TagID = normalizeOptional(req.TagID)
		if c.TagID != nil {
			if err := s.checkTag(ctx, req.UserID, *c.TagID); err != nil {
				return nil, err
			}
		}
	}
	if req.ColumnID != nil {
		if *req.ColumnID == "" {
			return nil, ErrInvalidColumnID
		}
		if err := s.checkColumn(ctx, req.UserID, *req.ColumnID); err != nil {
			return nil, err
		}
		c.ColumnID = *req.ColumnID
	}

	if err := s.repo.UpdateCard(ctx, c); err != nil {
		return nil, mapNotFound(err, ErrCardNotFound)
	}

	s.publishCardEvent(req.UserID, c.ID)
	return s.GetCard(ctx, req.UserID, c.ID)
}

// MoveCard places a card in the given column
func (s *service) MoveCard(ctx context.Context, userID, id, columnID string) (*models.Card, error) {
	if id == "" {
		return nil, ErrInvalidCardID
	}
	if columnID == "" {
		return nil, ErrInvalidColumnID
	}
	if err := s.checkColumn(ctx, userID, columnID); err != nil {
		return nil, err
	}
	if err := s.repo.MoveCard(ctx, userID, id, columnID); err != nil {
		return nil, mapNotFound(err, ErrCardNotFound)
	}

	s.publishCardEvent(userID, id)
	return s.GetCard(ctx, userID, id)
}

// MoveCardDirection moves a card to the column left or right of its own
func (s *service) MoveCardDirection(ctx context.Context, userID, id string, dir models.Direction) (*models.Card, error) {
	if !dir.Valid() {
		return nil, ErrInvalidDirection
	}
	c, err := s.GetCard(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	columns, err := s.repo.ListColumns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	idx := -1
	for i, col := range columns {
		if col.ID == c.ColumnID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrColumnNotFound
	}

	target := idx + 1
	if dir == models.DirectionLeft {
		target = idx - 1
	}
	switch {
	case target < 0:
		return nil, models.ErrAlreadyFirstColumn
	case target >= len(columns):
		return nil, models.ErrAlreadyLastColumn
	}

	return s.MoveCard(ctx, userID, id, columns[target].ID)
}

// DeleteCard removes a card
func (s *service) DeleteCard(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrInvalidCardID
	}
	if err := s.repo.DeleteCard(ctx, userID, id); err != nil {
		return mapNotFound(err, ErrCardNotFound)
	}

	s.publishCardEvent(userID, id)
	return nil
}

// ============================================================================
// Tag associations
// ============================================================================

// AddTag associates a tag with a card; re-adding is a no-op
func (s *service) AddTag(ctx context.Context, userID, cardID, tagID string) error {
	if cardID == "" {
		return ErrInvalidCardID
	}
	if tagID == "" {
		return ErrInvalidTagID
	}
	if _, err := s.GetCard(ctx, userID, cardID); err != nil {
		return err
	}
	if err := s.checkTag(ctx, userID, tagID); err != nil {
		return err
	}
	if err := s.repo.AddCardTag(ctx, userID, cardID, tagID); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}

	s.publishCardEvent(userID, cardID)
	return nil
}

// RemoveTag drops an association
func (s *service) RemoveTag(ctx context.Context, userID, cardID, tagID string) error {
	if cardID == "" {
		return ErrInvalidCardID
	}
	if tagID == "" {
		return ErrInvalidTagID
	}
	if err := s.repo.RemoveCardTag(ctx, userID, cardID, tagID); err != nil {
		return mapNotFound(err, ErrTagNotFound)
	}

	s.publishCardEvent(userID, cardID)
	return nil
}

// ListCardTags returns the tags associated with a card
func (s *service) ListCardTags(ctx context.Context, userID, cardID string) ([]*models.Tag, error) {
	if cardID == "" {
		return nil, ErrInvalidCardID
	}
	return s.repo.ListCardTags(ctx, userID, cardID)
}

// CardTagMap maps each card id to the ids of its associated tags
func (s *service) CardTagMap(ctx context.Context, userID string) (map[string][]string, error) {
	links, err := s.repo.ListAllCardTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := make(map[string][]string)
	for _, l := range links {
		m[l.CardID] = append(m[l.CardID], l.TagID)
	}
	return m, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *service) checkColumn(ctx context.Context, userID, columnID string) error {
	if _, err := s.repo.GetColumn(ctx, userID, columnID); err != nil {
		return mapNotFound(err, ErrColumnNotFound)
	}
	return nil
}

func (s *service) checkTag(ctx context.Context, userID, tagID string) error {
	if tagID == "" {
		return ErrInvalidTagID
	}
	if _, err := s.repo.GetTag(ctx, userID, tagID); err != nil {
		return mapNotFound(err, ErrTagNotFound)
	}
	return nil
}

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

// validateVisitDate returns nil for an absent or blank date
func validateVisitDate(date *string) (*string, error) {
	d := normalizeOptional(date)
	if d == nil {
		return nil, nil
	}
	if _, err := time.Parse(VisitDateLayout, *d); err != nil {
		return nil, ErrInvalidVisitDate
	}
	return d, nil
}

// normalizeOptional trims s and maps blank to nil
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func mapNotFound(err, target error) error {
	if errors.Is(err, database.ErrNotFound) {
		return target
	}
	return err
}

// publishCardEvent publishes a card event
func (s *service) publishCardEvent(userID, cardID string) {
	events.NotifyChanged(s.eventClient, userID, events.EntityCard, cardID)
}
