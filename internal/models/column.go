package models

import "time"

// Column is a stage of the rental pipeline (e.g. "New Leads", "Qualified").
// Columns are ordered per user by Position, lowest first.
type Column struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
