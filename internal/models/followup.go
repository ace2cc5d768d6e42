package models

import "time"

// DelayUnit is the unit a follow-up delay is expressed in
type DelayUnit string

const (
	DelayMinutes DelayUnit = "minutes"
	DelayDays    DelayUnit = "days"
)

// Valid reports whether u is a supported unit
func (u DelayUnit) Valid() bool {
	return u == DelayMinutes || u == DelayDays
}

// FollowUp is a templated message sent to a contact after a delay.
// Idx orders the steps of a user's follow-up sequence, starting at 1.
type FollowUp struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Idx        int       `json:"idx"`
	Name       string    `json:"name"`
	Message    string    `json:"message"`
	DelayValue int       `json:"delay_value"`
	DelayUnit  DelayUnit `json:"delay_unit"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Delay converts the configured value and unit to a duration
func (f *FollowUp) Delay() time.Duration {
	switch f.DelayUnit {
	case DelayMinutes:
		return time.Duration(f.DelayValue) * time.Minute
	default:
		return time.Duration(f.DelayValue) * 24 * time.Hour
	}
}

// Contact is a customer phone number the follow-up sequence runs against.
// LastFollowIdx is the idx of the last follow-up sent (0 = none yet).
type Contact struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	WhatsApp      *string   `json:"whatsapp"`
	CardID        *string   `json:"card_id"`
	LastFollowIdx int       `json:"last_follow_idx"`
	Finished      bool      `json:"finished"`
	LastContactAt time.Time `json:"last_contact_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DueFollowUp pairs a contact with the follow-up step that is ready to send
type DueFollowUp struct {
	Contact  *Contact  `json:"contact"`
	FollowUp *FollowUp `json:"follow_up"`
	DueAt    time.Time `json:"due_at"`
}
