package followup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// Repository is the storage the follow-up service needs
type Repository interface {
	database.FollowUpRepository
	database.ContactRepository
}

// Service defines follow-up configuration and scheduling operations
type Service interface {
	// Configuration
	ListFollowUps(ctx context.Context, userID string) ([]*models.FollowUp, error)
	UpdateFollowUp(ctx context.Context, req UpdateFollowUpRequest) (*models.FollowUp, error)
	ToggleFollowUp(ctx context.Context, userID, id string) (*models.FollowUp, error)

	// Contacts
	UpsertContact(ctx context.Context, req UpsertContactRequest) (*models.Contact, error)
	ListContacts(ctx context.Context, userID string, openOnly bool) ([]*models.Contact, error)
	FinishContact(ctx context.Context, userID, id string) error

	// Scheduling
	Due(ctx context.Context, userID string, now time.Time) ([]*models.DueFollowUp, error)
	DueAll(ctx context.Context, now time.Time) ([]*models.DueFollowUp, error)
	MarkSent(ctx context.Context, userID, contactID string, idx int, now time.Time) error
}

// UpdateFollowUpRequest encapsulates data for updating a step.
// Nil fields keep their current value.
type UpdateFollowUpRequest struct {
	UserID     string
	ID         string
	Name       *string
	Message    *string
	DelayValue *int
	DelayUnit  *models.DelayUnit
}

// UpsertContactRequest registers or refreshes a contact by phone
type UpsertContactRequest struct {
	UserID        string
	Phone         string
	Name          string
	WhatsApp      *string
	CardID        *string
	LastContactAt time.Time // zero = now
}

type service struct {
	repo        Repository
	eventClient events.EventPublisher
}

// NewService creates a new follow-up service
func NewService(repo Repository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// DefaultFollowUps returns the steps seeded for a user with none
func DefaultFollowUps(userID string) []*models.FollowUp {
	list := make([]*models.FollowUp, 0, models.DefaultFollowUpCount)
	for i := 0; i < models.DefaultFollowUpCount; i++ {
		list = append(list, &models.FollowUp{
			UserID:     userID,
			Idx:        i + 1,
			Name:       fmt.Sprintf("Follow up %d", i+1),
			Message:    models.DefaultFollowUpMessage,
			DelayValue: models.DefaultFollowUpDelays[i],
			DelayUnit:  models.DelayDays,
			Active:     true,
		})
	}
	return list
}

// ListFollowUps returns the user's steps ordered by idx, seeding the
// defaults on first use.
func (s *service) ListFollowUps(ctx context.Context, userID string) ([]*models.FollowUp, error) {
	list, err := s.repo.ListFollowUps(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		return list, nil
	}

	slog.Info("seeding default follow-ups", "user_id", userID)
	if err := s.repo.CreateFollowUps(ctx, DefaultFollowUps(userID)); err != nil && !errors.Is(err, database.ErrDuplicate) {
		return nil, fmt.Errorf("failed to seed follow-ups: %w", err)
	}
	return s.repo.ListFollowUps(ctx, userID)
}

// UpdateFollowUp edits the message, name or delay of a step
func (s *service) UpdateFollowUp(ctx context.Context, req UpdateFollowUpRequest) (*models.FollowUp, error) {
	if req.ID == "" {
		return nil, ErrInvalidFollowUpID
	}
	f, err := s.repo.GetFollowUp(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, mapNotFound(err, ErrFollowUpNotFound)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		f.Name = name
	}
	if req.Message != nil {
		f.Message = *req.Message
	}
	if req.DelayValue != nil {
		if *req.DelayValue < 0 {
			return nil, ErrNegativeDelay
		}
		f.DelayValue = *req.DelayValue
	}
	if req.DelayUnit != nil {
		if !req.DelayUnit.Valid() {
			return nil, ErrInvalidDelayUnit
		}
		f.DelayUnit = *req.DelayUnit
	}

	if err := s.repo.UpdateFollowUp(ctx, f); err != nil {
		return nil, mapNotFound(err, ErrFollowUpNotFound)
	}

	events.NotifyChanged(s.eventClient, req.UserID, events.EntityFollowUp, f.ID)
	return f, nil
}

// ToggleFollowUp flips a step between active and inactive
func (s *service) ToggleFollowUp(ctx context.Context, userID, id string) (*models.FollowUp, error) {
	if id == "" {
		return nil, ErrInvalidFollowUpID
	}
	f, err := s.repo.GetFollowUp(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, ErrFollowUpNotFound)
	}

	f.Active = !f.Active
	if err := s.repo.SetFollowUpActive(ctx, userID, id, f.Active); err != nil {
		return nil, mapNotFound(err, ErrFollowUpNotFound)
	}

	events.NotifyChanged(s.eventClient, userID, events.EntityFollowUp, id)
	return f, nil
}

// ============================================================================
// Contacts
// ============================================================================

// UpsertContact registers a phone for follow-ups or refreshes it
func (s *service) UpsertContact(ctx context.Context, req UpsertContactRequest) (*models.Contact, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, ErrEmptyPhone
	}

	c, err := s.repo.UpsertContact(ctx, &models.Contact{
		UserID:        req.UserID,
		Phone:         phone,
		Name:          strings.TrimSpace(req.Name),
		WhatsApp:      req.WhatsApp,
		CardID:        req.CardID,
		LastContactAt: req.LastContactAt,
	})
	if err != nil {
		return nil, err
	}

	events.NotifyChanged(s.eventClient, req.UserID, events.EntityContact, c.ID)
	return c, nil
}

// ListContacts returns the user's contacts
func (s *service) ListContacts(ctx context.Context, userID string, openOnly bool) ([]*models.Contact, error) {
	return s.repo.ListContacts(ctx, userID, openOnly)
}

// FinishContact stops the sequence for a contact
func (s *service) FinishContact(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrInvalidContactID
	}
	if err := s.repo.FinishContact(ctx, userID, id); err != nil {
		return mapNotFound(err, ErrContactNotFound)
	}

	events.NotifyChanged(s.eventClient, userID, events.EntityContact, id)
	return nil
}

// ============================================================================
// Scheduling
// ============================================================================

// Due returns, for each open contact of the user, the next active step when
// its delay has elapsed since the last contact.
func (s *service) Due(ctx context.Context, userID string, now time.Time) ([]*models.DueFollowUp, error) {
	steps, err := s.repo.ListFollowUps(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return []*models.DueFollowUp{}, nil
	}

	contacts, err := s.repo.ListContacts(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	due := []*models.DueFollowUp{}
	for _, c := range contacts {
		next := NextStep(steps, c.LastFollowIdx)
		if next == nil {
			continue
		}
		at := c.LastContactAt.Add(next.Delay())
		if !at.After(now) {
			due = append(due, &models.DueFollowUp{Contact: c, FollowUp: next, DueAt: at})
		}
	}
	return due, nil
}

// DueAll collects due follow-ups for every user with open contacts
func (s *service) DueAll(ctx context.Context, now time.Time) ([]*models.DueFollowUp, error) {
	owners, err := s.repo.ListContactOwners(ctx)
	if err != nil {
		return nil, err
	}

	var all []*models.DueFollowUp
	for _, userID := range owners {
		due, err := s.Due(ctx, userID, now)
		if err != nil {
			return nil, fmt.Errorf("due follow-ups for %s: %w", userID, err)
		}
		all = append(all, due...)
	}
	return all, nil
}

// MarkSent records that step idx was sent to a contact at now
func (s *service) MarkSent(ctx context.Context, userID, contactID string, idx int, now time.Time) error {
	if contactID == "" {
		return ErrInvalidContactID
	}
	if idx <= 0 {
		return ErrInvalidIdx
	}
	c, err := s.repo.GetContact(ctx, userID, contactID)
	if err != nil {
		return mapNotFound(err, ErrContactNotFound)
	}
	if c.Finished {
		return ErrContactFinished
	}

	if err := s.repo.MarkContactSent(ctx, userID, contactID, idx, now); err != nil {
		return mapNotFound(err, ErrContactNotFound)
	}

	events.NotifyChanged(s.eventClient, userID, events.EntityContact, contactID)
	return nil
}

// NextStep returns the first active step after lastIdx, or nil when the
// sequence is exhausted. steps must be ordered by idx.
func NextStep(steps []*models.FollowUp, lastIdx int) *models.FollowUp {
	for _, f := range steps {
		if f.Idx > lastIdx && f.Active {
			return f
		}
	}
	return nil
}

func mapNotFound(err, target error) error {
	if errors.Is(err, database.ErrNotFound) {
		return target
	}
	return err
}
