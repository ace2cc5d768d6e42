package database

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/models"
)

// ============================================================================
// Users
// ============================================================================

func TestUserRepo(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "owner@motoloc.test", "hash")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, "OWNER@motoloc.test", "hash")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for a taken email, got %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, "owner@motoloc.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserWithColumns(t *testing.T) {
	t.Parallel()

	t.Run("seeds columns in order", func(t *testing.T) {
		t.Parallel()
		repo := NewRepository(setupTestDB(t))
		ctx := context.Background()

		u, err := repo.CreateUserWithColumns(ctx, "owner@motoloc.test", "hash", []string{"New", "Won"})
		require.NoError(t, err)
		cols, err := repo.ListColumns(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, cols, 2)
		assert.Equal(t, "New", cols[0].Name)
		assert.Equal(t, "Won", cols[1].Name)

		_, err = repo.CreateUserWithColumns(ctx, "OWNER@motoloc.test", "hash", []string{"New"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("failed seeding leaves no user", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewRepository(db)
		ctx := context.Background()
		_, err := db.ExecContext(ctx, `DROP TABLE columns`)
		require.NoError(t, err)

		_, err = repo.CreateUserWithColumns(ctx, "owner@motoloc.test", "hash", []string{"New"})
		require.Error(t, err)

		_, err = repo.GetUserByEmail(ctx, "owner@motoloc.test")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ============================================================================
// Follow-ups and Contacts
// ============================================================================

func TestFollowUpRepo(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	steps := []*models.FollowUp{
		{UserID: "u1", Idx: 2, Name: "Second", DelayValue: 2, DelayUnit: models.DelayDays, Active: true},
		{UserID: "u1", Idx: 1, Name: "First", DelayValue: 30, DelayUnit: models.DelayMinutes, Active: true},
	}
	require.NoError(t, repo.CreateFollowUps(ctx, steps))

	list, err := repo.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Idx, "steps are ordered by idx")
	assert.Equal(t, models.DelayMinutes, list[0].DelayUnit)

	err = repo.CreateFollowUps(ctx, []*models.FollowUp{{UserID: "u1", Idx: 1, Name: "Dup", DelayUnit: models.DelayDays}})
	assert.ErrorIs(t, err, ErrDuplicate)

	f := list[0]
	f.Message = "Hi there"
	f.DelayValue = 5
	require.NoError(t, repo.UpdateFollowUp(ctx, f))
	require.NoError(t, repo.SetFollowUpActive(ctx, "u1", f.ID, false))

	got, err := repo.GetFollowUp(ctx, "u1", f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", got.Message)
	assert.Equal(t, 5, got.DelayValue)
	assert.False(t, got.Active)

	assert.ErrorIs(t, repo.SetFollowUpActive(ctx, "u2", f.ID, true), ErrNotFound)
}

func TestContactRepo(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c, err := repo.UpsertContact(ctx, &models.Contact{UserID: "u1", Phone: "5511", Name: "Ana", LastContactAt: first})
	require.NoError(t, err)
	assert.Equal(t, 0, c.LastFollowIdx)
	assert.True(t, c.LastContactAt.Equal(first))

	sent := first.Add(48 * time.Hour)
	require.NoError(t, repo.MarkContactSent(ctx, "u1", c.ID, 1, sent))

	// Upserting the same phone keeps id and progress
	again, err := repo.UpsertContact(ctx, &models.Contact{UserID: "u1", Phone: "5511", Name: "Ana Paula", LastContactAt: sent})
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, "Ana Paula", again.Name)
	assert.Equal(t, 1, again.LastFollowIdx)

	_, err = repo.UpsertContact(ctx, &models.Contact{UserID: "u2", Phone: "5511", Name: "Other"})
	require.NoError(t, err)

	owners, err := repo.ListContactOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, owners)

	require.NoError(t, repo.FinishContact(ctx, "u1", c.ID))

	open, err := repo.ListContacts(ctx, "u1", true)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := repo.ListContacts(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Finished)

	owners, err = repo.ListContactOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, owners)
}

// ============================================================================
// Theme
// ============================================================================

func TestThemeRepo(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.GetTheme(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	ts := &models.ThemeSettings{UserID: "u1", Brand: models.BrandColors{Navy: "#000000"}}
	ts.Dark.Background = "#111111"
	require.NoError(t, repo.SaveTheme(ctx, ts))

	ts.Brand.Navy = "#222222"
	require.NoError(t, repo.SaveTheme(ctx, ts), "saving twice replaces the record")

	got, err := repo.GetTheme(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "#222222", got.Brand.Navy)
	assert.Equal(t, "#111111", got.Dark.Background)
	assert.Empty(t, got.Light.Background)

	require.NoError(t, repo.DeleteTheme(ctx, "u1"))
	_, err = repo.GetTheme(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// Chat
// ============================================================================

func TestChatRepo(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.AppendChatMessage(ctx, "5511@s.whatsapp.net", json.RawMessage(`{"type":"human","content":"oi"}`))
	require.NoError(t, err)
	_, err = repo.AppendChatMessage(ctx, "other", json.RawMessage(`"plain"`))
	require.NoError(t, err)
	last, err := repo.AppendChatMessage(ctx, "5511@s.whatsapp.net", json.RawMessage(`{"type":"ai","content":"hello"}`))
	require.NoError(t, err)
	assert.Positive(t, last.ID)

	all, err := repo.ListChatMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	session, err := repo.ListSessionMessages(ctx, "5511@s.whatsapp.net")
	require.NoError(t, err)
	require.Len(t, session, 2)
	assert.JSONEq(t, `{"type":"human","content":"oi"}`, string(session[0].Message))
	assert.Equal(t, last.ID, session[1].ID)
}

// ============================================================================
// Persistence
// ============================================================================

// TestPersistenceAcrossRestart tests that data survives closing and reopening the file
func TestPersistenceAcrossRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "motocrm.db")

	db, err := InitDB(ctx, path)
	require.NoError(t, err)
	repo := NewRepository(db)
	col := createTestColumn(t, repo, "u1", "New Leads")
	createTestCard(t, repo, "u1", col.ID, "Persisted")
	require.NoError(t, db.Close())

	db, err = InitDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	cards, err := NewRepository(db).ListCards(ctx, "u1", CardFilter{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Persisted", cards[0].Name)
}
