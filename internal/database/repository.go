package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*UserRepo
	*ColumnRepo
	*CardRepo
	*TagRepo
	*FollowUpRepo
	*ThemeRepo
	*ChatRepo
}

var _ DataStore = (*Repository)(nil)

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		UserRepo:     &UserRepo{db: db},
		ColumnRepo:   &ColumnRepo{db: db},
		CardRepo:     &CardRepo{db: db},
		TagRepo:      &TagRepo{db: db},
		FollowUpRepo: &FollowUpRepo{db: db},
		ThemeRepo:    &ThemeRepo{db: db},
		ChatRepo:     &ChatRepo{db: db},
	}
}
