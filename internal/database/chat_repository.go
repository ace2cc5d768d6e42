package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/motoloc/motocrm/internal/models"
)

// ChatRepository defines access to the bot conversation log.
type ChatRepository interface {
	AppendChatMessage(ctx context.Context, sessionID string, message json.RawMessage) (*models.ChatMessage, error)
	ListChatMessages(ctx context.Context) ([]*models.ChatMessage, error)
	ListSessionMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error)
}

// ChatRepo handles chat log database operations.
type ChatRepo struct {
	db *sql.DB
}

// AppendChatMessage logs one message of a session
func (r *ChatRepo) AppendChatMessage(ctx context.Context, sessionID string, message json.RawMessage) (*models.ChatMessage, error) {
	m := &models.ChatMessage{SessionID: sessionID, Message: message, CreatedAt: now()}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, message, created_at) VALUES (?, ?, ?)`,
		sessionID, string(message), m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("appending chat message: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return m, nil
}

// ListChatMessages returns the whole log, oldest first
func (r *ChatRepo) ListChatMessages(ctx context.Context) ([]*models.ChatMessage, error) {
	return r.queryMessages(ctx,
		`SELECT id, session_id, message, created_at FROM chat_messages ORDER BY created_at, id`)
}

// ListSessionMessages returns the messages of one session, oldest first
func (r *ChatRepo) ListSessionMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error) {
	return r.queryMessages(ctx,
		`SELECT id, session_id, message, created_at FROM chat_messages WHERE session_id = ? ORDER BY created_at, id`,
		sessionID)
}

func (r *ChatRepo) queryMessages(ctx context.Context, query string, args ...any) ([]*models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	list := []*models.ChatMessage{}
	for rows.Next() {
		m := &models.ChatMessage{}
		var raw string
		if err := rows.Scan(&m.ID, &m.SessionID, &raw, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message row: %w", err)
		}
		m.Message = json.RawMessage(raw)
		list = append(list, m)
	}
	return list, rows.Err()
}
