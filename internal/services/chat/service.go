package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// Service defines chat log operations
type Service interface {
	Append(ctx context.Context, sessionID string, message json.RawMessage) (*models.ChatMessage, error)
	Sessions(ctx context.Context) ([]*models.ChatSession, error)
	Session(ctx context.Context, sessionID string) (*models.ChatSession, error)
}

type service struct {
	repo        database.ChatRepository
	eventClient events.EventPublisher
}

// NewService creates a new chat service
func NewService(repo database.ChatRepository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// Append logs a message. The log is shared by every operator, so the change
// event is broadcast to all subscribers.
func (s *service) Append(ctx context.Context, sessionID string, message json.RawMessage) (*models.ChatMessage, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	if len(message) == 0 || !json.Valid(message) {
		return nil, ErrInvalidMessage
	}

	m, err := s.repo.AppendChatMessage(ctx, sessionID, message)
	if err != nil {
		return nil, fmt.Errorf("failed to append chat message: %w", err)
	}

	events.NotifyChanged(s.eventClient, "", events.EntityChat, sessionID)
	return m, nil
}

// Sessions groups the log by session, most recent activity first
func (s *service) Sessions(ctx context.Context) ([]*models.ChatSession, error) {
	msgs, err := s.repo.ListChatMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return GroupSessions(msgs), nil
}

// Session returns one conversation with its messages oldest first
func (s *service) Session(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySessionID
	}
	msgs, err := s.repo.ListSessionMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session messages: %w", err)
	}
	if len(msgs) == 0 {
		return nil, ErrSessionNotFound
	}
	return GroupSessions(msgs)[0], nil
}

// GroupSessions builds sessions from messages ordered oldest first
func GroupSessions(msgs []*models.ChatMessage) []*models.ChatSession {
	byID := make(map[string]*models.ChatSession)
	var sessions []*models.ChatSession

	for _, m := range msgs {
		sess, ok := byID[m.SessionID]
		if !ok {
			sess = &models.ChatSession{
				SessionID:   m.SessionID,
				PhoneNumber: PhoneNumber(m.SessionID),
			}
			byID[m.SessionID] = sess
			sessions = append(sessions, sess)
		}
		sess.Messages = append(sess.Messages, m)
		sess.MessageCount++
		if !m.CreatedAt.Before(sess.LastActivity) {
			sess.LastActivity = m.CreatedAt
			sess.LastMessage = MessageText(m.Message)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})
	return sessions
}
