package models

import (
	"encoding/json"
	"time"
)

// ChatMessage is one logged message of a bot conversation. Message holds the
// raw JSON payload as written by the automation (string or object).
type ChatMessage struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChatSession groups the messages of one conversation
type ChatSession struct {
	SessionID    string         `json:"session_id"`
	Messages     []*ChatMessage `json:"messages"`
	LastMessage  string         `json:"last_message"`
	MessageCount int            `json:"message_count"`
	LastActivity time.Time      `json:"last_activity"`
	PhoneNumber  string         `json:"phone_number"`
}
