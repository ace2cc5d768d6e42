package models

import "time"

// Card is a lead: a prospective or active rental customer sitting in one
// pipeline column.
type Card struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ColumnID  string    `json:"column_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	TagID     *string   `json:"tag_id"`     // Primary tag, optional
	VisitDate *string   `json:"visit_date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated on reads
	Tag  *Tag   `json:"tag,omitempty"`
	Tags []*Tag `json:"tags,omitempty"`
}

// GetID lets output formatters print just the ID in quiet mode
func (c *Card) GetID() string { return c.ID }

// HasTag reports whether the card carries tagID as its primary tag or as an
// associated tag.
func (c *Card) HasTag(tagID string) bool {
	if c.TagID != nil && *c.TagID == tagID {
		return true
	}
	for _, t := range c.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// CardTag associates a tag with a card (many-to-many)
type CardTag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CardID    string    `json:"card_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
