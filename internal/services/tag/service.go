package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/motoloc/motocrm/internal/colorutil"
	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// MaxNameLength is the longest accepted tag name, in characters
const MaxNameLength = 50

// Service defines all tag-related business operations
type Service interface {
	ListTags(ctx context.Context, userID string) ([]*models.Tag, error)
	GetTag(ctx context.Context, userID, id string) (*models.Tag, error)
	CreateTag(ctx context.Context, req CreateTagRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, req UpdateTagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, userID, id string) error
}

// CreateTagRequest encapsulates data for creating a tag
type CreateTagRequest struct {
	UserID string
	Name   string
	Color  string // empty = models.DefaultTagColor
}

// UpdateTagRequest encapsulates data for updating a tag.
// Nil fields keep their current value.
type UpdateTagRequest struct {
	UserID string
	ID     string
	Name   *string
	Color  *string
}

type service struct {
	repo        database.TagRepository
	eventClient events.EventPublisher
}

// NewService creates a new tag service
func NewService(repo database.TagRepository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// ListTags returns the user's tags ordered by name
func (s *service) ListTags(ctx context.Context, userID string) ([]*models.Tag, error) {
	return s.repo.ListTags(ctx, userID)
}

// GetTag retrieves a single tag
func (s *service) GetTag(ctx context.Context, userID, id string) (*models.Tag, error) {
	if id == "" {
		return nil, ErrInvalidTagID
	}
	t, err := s.repo.GetTag(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return t, nil
}

// CreateTag creates a tag, defaulting its color
func (s *service) CreateTag(ctx context.Context, req CreateTagRequest) (*models.Tag, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = models.DefaultTagColor
	}
	if !colorutil.ValidHex(color) {
		return nil, ErrInvalidColor
	}

	t, err := s.repo.CreateTag(ctx, req.UserID, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	events.NotifyChanged(s.eventClient, req.UserID, events.EntityTag, t.ID)
	return t, nil
}

// UpdateTag changes the name and/or color of a tag
func (s *service) UpdateTag(ctx context.Context, req UpdateTagRequest) (*models.Tag, error) {
	if req.ID == "" {
		return nil, ErrInvalidTagID
	}

	existing, err := s.repo.GetTag(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		existing.Name = name
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		if !colorutil.ValidHex(color) {
			return nil, ErrInvalidColor
		}
		existing.Color = color
	}

	if err := s.repo.UpdateTag(ctx, req.UserID, req.ID, existing.Name, existing.Color); err != nil {
		return nil, mapNotFound(err)
	}

	events.NotifyChanged(s.eventClient, req.UserID, events.EntityTag, req.ID)
	return existing, nil
}

// DeleteTag removes a tag; cards lose it as primary or associated tag
func (s *service) DeleteTag(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrInvalidTagID
	}
	if err := s.repo.DeleteTag(ctx, userID, id); err != nil {
		return mapNotFound(err)
	}

	events.NotifyChanged(s.eventClient, userID, events.EntityTag, id)
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

func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrTagNotFound
	}
	return err
}
