package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/motoloc/motocrm/internal/models"
)

// ColumnReader defines read operations for columns.
type ColumnReader interface {
	ListColumns(ctx context.Context, userID string) ([]*models.Column, error)
	GetColumn(ctx context.Context, userID, id string) (*models.Column, error)
}

// ColumnWriter defines write operations for columns.
type ColumnWriter interface {
	CreateColumn(ctx context.Context, userID, name string) (*models.Column, error)
	CreateDefaultColumns(ctx context.Context, userID string, names []string) error
	RenameColumn(ctx context.Context, userID, id, name string) error
	DeleteColumn(ctx context.Context, userID, id string) error
	SwapColumnPositions(ctx context.Context, userID, firstID, secondID string) error
}

// ColumnRepository combines all column-related operations.
type ColumnRepository interface {
	ColumnReader
	ColumnWriter
}

// ColumnRepo handles all column-related database operations.
type ColumnRepo struct {
	db *sql.DB
}

const columnSelect = `SELECT id, user_id, name, position, created_at, updated_at FROM columns`

func scanColumn(row interface{ Scan(...any) error }) (*models.Column, error) {
	col := &models.Column{}
	err := row.Scan(&col.ID, &col.UserID, &col.Name, &col.Position, &col.CreatedAt, &col.UpdatedAt)
	return col, err
}

// ListColumns returns the user's columns ordered by position, leftmost first
func (r *ColumnRepo) ListColumns(ctx context.Context, userID string) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		columnSelect+` WHERE user_id = ? ORDER BY position, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	columns := []*models.Column{}
	for rows.Next() {
		col, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// GetColumn retrieves a single column owned by the user
func (r *ColumnRepo) GetColumn(ctx context.Context, userID, id string) (*models.Column, error) {
	col, err := scanColumn(r.db.QueryRowContext(ctx,
		columnSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return col, nil
}

// CreateColumn appends a column after the user's current rightmost one
func (r *ColumnRepo) CreateColumn(ctx context.Context, userID, name string) (*models.Column, error) {
	col := &models.Column{ID: newID(), UserID: userID, Name: name}
	col.CreatedAt = now()
	col.UpdatedAt = col.CreatedAt

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var maxPos sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(position) FROM columns WHERE user_id = ?`, userID).Scan(&maxPos); err != nil {
			return err
		}
		if maxPos.Valid {
			col.Position = int(maxPos.Int64) + 1
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO columns (id, user_id, name, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			col.ID, col.UserID, col.Name, col.Position, col.CreatedAt, col.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating column: %w", err)
	}
	return col, nil
}

// CreateDefaultColumns seeds the given columns, in order, for a user that has
// none yet. It is a no-op when the user already owns columns.
func (r *ColumnRepo) CreateDefaultColumns(ctx context.Context, userID string, names []string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM columns WHERE user_id = ?`, userID).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		return seedColumns(ctx, tx, userID, names)
	})
}

func seedColumns(ctx context.Context, tx *sql.Tx, userID string, names []string) error {
	ts := now()
	for pos, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO columns (id, user_id, name, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), userID, name, pos, ts, ts); err != nil {
			return fmt.Errorf("seeding column %q: %w", name, err)
		}
	}
	return nil
}

// RenameColumn updates a column's name
func (r *ColumnRepo) RenameColumn(ctx context.Context, userID, id, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE columns SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		name, now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteColumn removes a column; its cards go with it (ON DELETE CASCADE)
func (r *ColumnRepo) DeleteColumn(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM columns WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SwapColumnPositions exchanges the positions of two of the user's columns
func (r *ColumnRepo) SwapColumnPositions(ctx context.Context, userID, firstID, secondID string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var firstPos, secondPos int
		if err := tx.QueryRowContext(ctx,
			`SELECT position FROM columns WHERE id = ? AND user_id = ?`, firstID, userID).Scan(&firstPos); err != nil {
			return notFound(err)
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT position FROM columns WHERE id = ? AND user_id = ?`, secondID, userID).Scan(&secondPos); err != nil {
			return notFound(err)
		}

		ts := now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE columns SET position = ?, updated_at = ? WHERE id = ?`, secondPos, ts, firstID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE columns SET position = ?, updated_at = ? WHERE id = ?`, firstPos, ts, secondID)
		return err
	})
}
