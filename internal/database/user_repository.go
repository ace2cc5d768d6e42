package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/motoloc/motocrm/internal/models"
)

// UserRepository defines account operations.
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	CreateUserWithColumns(ctx context.Context, email, passwordHash string, columns []string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserRepo handles all user-related database operations.
type UserRepo struct {
	db *sql.DB
}

const userSelect = `SELECT id, email, password_hash, created_at FROM users`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// CreateUser inserts an account. A taken email yields ErrDuplicate.
func (r *UserRepo) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := &models.User{ID: newID(), Email: email, PasswordHash: passwordHash, CreatedAt: now()}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// CreateUserWithColumns inserts an account together with its starting
// columns. Nothing is written unless both succeed.
func (r *UserRepo) CreateUserWithColumns(ctx context.Context, email, passwordHash string, columns []string) (*models.User, error) {
	u := &models.User{ID: newID(), Email: email, PasswordHash: passwordHash, CreatedAt: now()}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
			u.ID, u.Email, u.PasswordHash, u.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return seedColumns(ctx, tx, u.ID, columns)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser retrieves an account by id
func (r *UserRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id))
}

// GetUserByEmail retrieves an account by email, ignoring case
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email))
}
