package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/motoloc/motocrm/internal/models"
)

// ThemeRepository defines persistence of per-user theme settings.
type ThemeRepository interface {
	GetTheme(ctx context.Context, userID string) (*models.ThemeSettings, error)
	SaveTheme(ctx context.Context, ts *models.ThemeSettings) error
	DeleteTheme(ctx context.Context, userID string) error
}

// ThemeRepo stores theme settings as a JSON document per user.
type ThemeRepo struct {
	db *sql.DB
}

// GetTheme returns the stored settings exactly as saved (no defaults applied)
func (r *ThemeRepo) GetTheme(ctx context.Context, userID string) (*models.ThemeSettings, error) {
	var raw string
	ts := &models.ThemeSettings{}
	err := r.db.QueryRowContext(ctx,
		`SELECT settings, created_at, updated_at FROM theme_settings WHERE user_id = ?`, userID).
		Scan(&raw, &ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal([]byte(raw), ts); err != nil {
		return nil, fmt.Errorf("decoding theme settings: %w", err)
	}
	ts.UserID = userID
	return ts, nil
}

// SaveTheme inserts or replaces the user's settings
func (r *ThemeRepo) SaveTheme(ctx context.Context, ts *models.ThemeSettings) error {
	doc := struct {
		Brand models.BrandColors `json:"brand"`
		Light models.Palette     `json:"light"`
		Dark  models.Palette     `json:"dark"`
	}{ts.Brand, ts.Light, ts.Dark}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding theme settings: %w", err)
	}

	t := now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO theme_settings (user_id, settings, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at`,
		ts.UserID, string(raw), t, t)
	if err != nil {
		return fmt.Errorf("saving theme settings: %w", err)
	}
	ts.UpdatedAt = t
	return nil
}

// DeleteTheme drops the user's settings so defaults apply again
func (r *ThemeRepo) DeleteTheme(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM theme_settings WHERE user_id = ?`, userID)
	return err
}
