package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventDatabaseChanged EventType = "db_changed"
	EventFollowUpDue     EventType = "followup_due"
	EventPing            EventType = "ping"
)

// Entity names carried in db_changed events
const (
	EntityCard     = "card"
	EntityColumn   = "column"
	EntityTag      = "tag"
	EntityFollowUp = "follow_up"
	EntityContact  = "contact"
	EntityTheme    = "theme"
	EntityChat     = "chat"
)

// Event represents a change notification
type Event struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"user_id,omitempty"` // Owner of the change; empty = every user
	Entity     string    `json:"entity,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequence_id"` // Monotonically increasing sequence number for ordering
}

// Message wraps events and keep-alives delivered to subscribers
type Message struct {
	Type  string `json:"type"` // "event", "ping"
	Event *Event `json:"event,omitempty"`
}
