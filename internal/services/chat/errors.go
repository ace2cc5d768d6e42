package chat

import "errors"

// Chat-related errors
var (
	ErrEmptySessionID  = errors.New("session id cannot be empty")
	ErrInvalidMessage  = errors.New("message must be valid JSON")
	ErrSessionNotFound = errors.New("chat session not found")
)
