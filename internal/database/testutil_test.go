package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/motoloc/motocrm/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
// This is the unified test database setup used by all tests
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createTestColumn creates a column and fails the test on error
func createTestColumn(t *testing.T, repo *Repository, userID, name string) *models.Column {
	t.Helper()
	col, err := repo.CreateColumn(context.Background(), userID, name)
	if err != nil {
		t.Fatalf("Failed to create column %q: %v", name, err)
	}
	return col
}

// createTestCard creates a card in columnID and fails the test on error
func createTestCard(t *testing.T, repo *Repository, userID, columnID, name string) *models.Card {
	t.Helper()
	card := &models.Card{UserID: userID, ColumnID: columnID, Name: name}
	if err := repo.CreateCard(context.Background(), card); err != nil {
		t.Fatalf("Failed to create card %q: %v", name, err)
	}
	return card
}

// createTestTag creates a tag and fails the test on error
func createTestTag(t *testing.T, repo *Repository, userID, name string) *models.Tag {
	t.Helper()
	tag, err := repo.CreateTag(context.Background(), userID, name, models.DefaultTagColor)
	if err != nil {
		t.Fatalf("Failed to create tag %q: %v", name, err)
	}
	return tag
}

func strPtr(s string) *string { return &s }
