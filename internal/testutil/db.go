package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/models"
)

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return db
}

// SetupTestRepo creates an in-memory database and a repository over it
func SetupTestRepo(t *testing.T) (*sql.DB, *database.Repository) {
	t.Helper()
	db := SetupTestDB(t)
	return db, database.NewRepository(db)
}

// CreateTestColumn creates a column for userID and returns it
func CreateTestColumn(t *testing.T, repo database.ColumnRepository, userID, name string) *models.Column {
	t.Helper()
	col, err := repo.CreateColumn(context.Background(), userID, name)
	if err != nil {
		t.Fatalf("Failed to create test column: %v", err)
	}
	return col
}

// CreateTestCard creates a card in columnID and returns it
func CreateTestCard(t *testing.T, repo database.CardRepository, userID, columnID, name string) *models.Card {
	t.Helper()
	card := &models.Card{UserID: userID, ColumnID: columnID, Name: name}
	if err := repo.CreateCard(context.Background(), card); err != nil {
		t.Fatalf("Failed to create test card: %v", err)
	}
	return card
}

// CreateTestTag creates a tag for userID and returns it
func CreateTestTag(t *testing.T, repo database.TagRepository, userID, name, color string) *models.Tag {
	t.Helper()
	tag, err := repo.CreateTag(context.Background(), userID, name, color)
	if err != nil {
		t.Fatalf("Failed to create test tag: %v", err)
	}
	return tag
}

// SetCardCreatedAt backdates a card, for time-bucketed assertions
func SetCardCreatedAt(t *testing.T, db *sql.DB, cardID string, createdAt any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(),
		"UPDATE cards SET created_at = ? WHERE id = ?", createdAt, cardID); err != nil {
		t.Fatalf("Failed to backdate card: %v", err)
	}
}
