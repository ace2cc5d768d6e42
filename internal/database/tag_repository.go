package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/motoloc/motocrm/internal/models"
)

// TagReader defines read operations for tags.
type TagReader interface {
	ListTags(ctx context.Context, userID string) ([]*models.Tag, error)
	GetTag(ctx context.Context, userID, id string) (*models.Tag, error)
}

// TagWriter defines write operations for tags.
type TagWriter interface {
	CreateTag(ctx context.Context, userID, name, color string) (*models.Tag, error)
	UpdateTag(ctx context.Context, userID, id, name, color string) error
	DeleteTag(ctx context.Context, userID, id string) error
}

// TagRepository combines all tag-related operations.
type TagRepository interface {
	TagReader
	TagWriter
}

// TagRepo handles all tag-related database operations.
type TagRepo struct {
	db *sql.DB
}

const tagSelect = `SELECT id, user_id, name, color, created_at, updated_at FROM tags`

func scanTag(row interface{ Scan(...any) error }) (*models.Tag, error) {
	tag := &models.Tag{}
	err := row.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
	return tag, err
}

// ListTags returns the user's tags ordered by name
func (r *TagRepo) ListTags(ctx context.Context, userID string) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, tagSelect+` WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// GetTag retrieves a single tag owned by the user
func (r *TagRepo) GetTag(ctx context.Context, userID, id string) (*models.Tag, error) {
	tag, err := scanTag(r.db.QueryRowContext(ctx, tagSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return tag, nil
}

// CreateTag inserts a new tag
func (r *TagRepo) CreateTag(ctx context.Context, userID, name, color string) (*models.Tag, error) {
	ts := now()
	tag := &models.Tag{ID: newID(), UserID: userID, Name: name, Color: color, CreatedAt: ts, UpdatedAt: ts}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		tag.ID, tag.UserID, tag.Name, tag.Color, tag.CreatedAt, tag.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return tag, nil
}

// UpdateTag changes a tag's name and color
func (r *TagRepo) UpdateTag(ctx context.Context, userID, id, name, color string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		name, color, now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteTag removes a tag. Associations are dropped and cards that used it
// as primary tag are left untagged.
func (r *TagRepo) DeleteTag(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
