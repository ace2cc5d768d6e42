package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/motoloc/motocrm/internal/models"
)

// FollowUpRepository defines operations on follow-up steps.
type FollowUpRepository interface {
	ListFollowUps(ctx context.Context, userID string) ([]*models.FollowUp, error)
	GetFollowUp(ctx context.Context, userID, id string) (*models.FollowUp, error)
	CreateFollowUps(ctx context.Context, followUps []*models.FollowUp) error
	UpdateFollowUp(ctx context.Context, f *models.FollowUp) error
	SetFollowUpActive(ctx context.Context, userID, id string, active bool) error
}

// ContactRepository defines operations on follow-up contacts.
type ContactRepository interface {
	UpsertContact(ctx context.Context, c *models.Contact) (*models.Contact, error)
	GetContact(ctx context.Context, userID, id string) (*models.Contact, error)
	ListContacts(ctx context.Context, userID string, openOnly bool) ([]*models.Contact, error)
	ListContactOwners(ctx context.Context) ([]string, error)
	FinishContact(ctx context.Context, userID, id string) error
	MarkContactSent(ctx context.Context, userID, id string, idx int, at time.Time) error
}

// FollowUpRepo handles follow-up and contact database operations.
type FollowUpRepo struct {
	db *sql.DB
}

const followUpSelect = `SELECT id, user_id, idx, name, message, delay_value, delay_unit, active, created_at, updated_at FROM follow_ups`

func scanFollowUp(row interface{ Scan(...any) error }) (*models.FollowUp, error) {
	f := &models.FollowUp{}
	var unit string
	err := row.Scan(&f.ID, &f.UserID, &f.Idx, &f.Name, &f.Message,
		&f.DelayValue, &unit, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	f.DelayUnit = models.DelayUnit(unit)
	return f, err
}

// ListFollowUps returns the user's follow-up steps ordered by idx
func (r *FollowUpRepo) ListFollowUps(ctx context.Context, userID string) ([]*models.FollowUp, error) {
	rows, err := r.db.QueryContext(ctx, followUpSelect+` WHERE user_id = ? ORDER BY idx`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying follow-ups: %w", err)
	}
	defer rows.Close()

	list := []*models.FollowUp{}
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning follow-up row: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// GetFollowUp retrieves one step owned by the user
func (r *FollowUpRepo) GetFollowUp(ctx context.Context, userID, id string) (*models.FollowUp, error) {
	f, err := scanFollowUp(r.db.QueryRowContext(ctx, followUpSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

// CreateFollowUps inserts the steps in a single transaction, assigning IDs
// and timestamps.
func (r *FollowUpRepo) CreateFollowUps(ctx context.Context, followUps []*models.FollowUp) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := now()
		for _, f := range followUps {
			f.ID = newID()
			f.CreatedAt, f.UpdatedAt = ts, ts
			_, err := tx.ExecContext(ctx,
				`INSERT INTO follow_ups (id, user_id, idx, name, message, delay_value, delay_unit, active, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				f.ID, f.UserID, f.Idx, f.Name, f.Message, f.DelayValue, string(f.DelayUnit), f.Active,
				f.CreatedAt, f.UpdatedAt)
			if err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicate
				}
				return fmt.Errorf("creating follow-up %d: %w", f.Idx, err)
			}
		}
		return nil
	})
}

// UpdateFollowUp writes the message, delay and name of a step
func (r *FollowUpRepo) UpdateFollowUp(ctx context.Context, f *models.FollowUp) error {
	f.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE follow_ups SET name = ?, message = ?, delay_value = ?, delay_unit = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		f.Name, f.Message, f.DelayValue, string(f.DelayUnit), f.UpdatedAt, f.ID, f.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetFollowUpActive turns a step on or off
func (r *FollowUpRepo) SetFollowUpActive(ctx context.Context, userID, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE follow_ups SET active = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		active, now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ============================================================================
// Contacts
// ============================================================================

const contactSelect = `SELECT id, user_id, phone, name, whatsapp, card_id, last_follow_idx, finished,
	last_contact_at, created_at, updated_at FROM contacts`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	var whatsapp, cardID sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.Phone, &c.Name, &whatsapp, &cardID,
		&c.LastFollowIdx, &c.Finished, &c.LastContactAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.WhatsApp = nullStringToPtr(whatsapp)
	c.CardID = nullStringToPtr(cardID)
	return c, nil
}

// UpsertContact inserts a contact or, when the phone is already known for
// the user, refreshes its name, whatsapp, card and last contact time. The
// follow-up progress of an existing contact is kept.
func (r *FollowUpRepo) UpsertContact(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	ts := now()
	if c.LastContactAt.IsZero() {
		c.LastContactAt = ts
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, user_id, phone, name, whatsapp, card_id, last_follow_idx, finished,
			last_contact_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?)
		 ON CONFLICT(user_id, phone) DO UPDATE SET
			name = excluded.name,
			whatsapp = excluded.whatsapp,
			card_id = excluded.card_id,
			last_contact_at = excluded.last_contact_at,
			updated_at = excluded.updated_at`,
		newID(), c.UserID, c.Phone, c.Name, ptrToNullString(c.WhatsApp), ptrToNullString(c.CardID),
		c.LastContactAt.UTC(), ts, ts)
	if err != nil {
		return nil, fmt.Errorf("upserting contact: %w", err)
	}

	saved, err := scanContact(r.db.QueryRowContext(ctx,
		contactSelect+` WHERE user_id = ? AND phone = ?`, c.UserID, c.Phone))
	if err != nil {
		return nil, notFound(err)
	}
	return saved, nil
}

// GetContact retrieves one contact owned by the user
func (r *FollowUpRepo) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, contactSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListContacts returns the user's contacts, most recently contacted first.
// With openOnly, finished contacts are excluded.
func (r *FollowUpRepo) ListContacts(ctx context.Context, userID string, openOnly bool) ([]*models.Contact, error) {
	query := contactSelect + ` WHERE user_id = ?`
	if openOnly {
		query += ` AND finished = 0`
	}
	query += ` ORDER BY last_contact_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	list := []*models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListContactOwners returns the ids of users with at least one open contact
func (r *FollowUpRepo) ListContactOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM contacts WHERE finished = 0 ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying contact owners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FinishContact stops the follow-up sequence for a contact
func (r *FollowUpRepo) FinishContact(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET finished = 1, updated_at = ? WHERE id = ? AND user_id = ?`,
		now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// MarkContactSent records that follow-up idx was sent at the given time
func (r *FollowUpRepo) MarkContactSent(ctx context.Context, userID, id string, idx int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET last_follow_idx = ?, last_contact_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		idx, at.UTC(), now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
