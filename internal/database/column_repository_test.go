package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestColumnPositions tests that columns are appended in order
func TestColumnPositions(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col1 := createTestColumn(t, repo, "u1", "New Leads")
	col2 := createTestColumn(t, repo, "u1", "Qualified")
	col3 := createTestColumn(t, repo, "u1", "Closed")

	assert.Equal(t, 0, col1.Position, "first column starts at 0")
	assert.Equal(t, 1, col2.Position)
	assert.Equal(t, 2, col3.Position)

	columns, err := repo.ListColumns(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, []string{"New Leads", "Qualified", "Closed"},
		[]string{columns[0].Name, columns[1].Name, columns[2].Name})
}

// TestColumnOwnership tests that columns are scoped by user
func TestColumnOwnership(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col := createTestColumn(t, repo, "u1", "Mine")
	createTestColumn(t, repo, "u2", "Theirs")

	columns, err := repo.ListColumns(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "Theirs", columns[0].Name)
	assert.Equal(t, 0, columns[0].Position, "positions are per user")

	_, err = repo.GetColumn(ctx, "u2", col.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound reading another user's column, got %v", err)
	}

	err = repo.RenameColumn(ctx, "u2", col.ID, "Hijacked")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound renaming another user's column, got %v", err)
	}
}

func TestRenameColumn(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col := createTestColumn(t, repo, "u1", "Old")
	require.NoError(t, repo.RenameColumn(ctx, "u1", col.ID, "New"))

	got, err := repo.GetColumn(ctx, "u1", col.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}

// TestDeleteColumnCascadesCards tests that a column's cards are removed with it
func TestDeleteColumnCascadesCards(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col := createTestColumn(t, repo, "u1", "Doomed")
	keep := createTestColumn(t, repo, "u1", "Kept")
	createTestCard(t, repo, "u1", col.ID, "Lead A")
	createTestCard(t, repo, "u1", keep.ID, "Lead B")

	require.NoError(t, repo.DeleteColumn(ctx, "u1", col.ID))

	cards, err := repo.ListCards(ctx, "u1", CardFilter{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Lead B", cards[0].Name)

	if err := repo.DeleteColumn(ctx, "u1", col.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSwapColumnPositions(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	a := createTestColumn(t, repo, "u1", "A")
	b := createTestColumn(t, repo, "u1", "B")

	require.NoError(t, repo.SwapColumnPositions(ctx, "u1", a.ID, b.ID))

	columns, err := repo.ListColumns(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "B", columns[0].Name)
	assert.Equal(t, "A", columns[1].Name)

	err = repo.SwapColumnPositions(ctx, "u1", a.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDefaultColumns(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	names := []string{"One", "Two"}
	require.NoError(t, repo.CreateDefaultColumns(ctx, "u1", names))
	// Seeding again is a no-op
	require.NoError(t, repo.CreateDefaultColumns(ctx, "u1", names))

	columns, err := repo.ListColumns(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, 0, columns[0].Position)
	assert.Equal(t, 1, columns[1].Position)

	// A later column continues the sequence
	third := createTestColumn(t, repo, "u1", "Three")
	assert.Equal(t, 2, third.Position)
}
