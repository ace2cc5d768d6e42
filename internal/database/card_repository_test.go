package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/models"
)

// TestCardCRUDPersistence tests the full create/read/update/delete cycle
func TestCardCRUDPersistence(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col := createTestColumn(t, repo, "u1", "New Leads")
	tag := createTestTag(t, repo, "u1", "VIP")

	card := &models.Card{
		UserID:    "u1",
		ColumnID:  col.ID,
		Name:      "Maria",
		Phone:     strPtr("5511999990000"),
		TagID:     &tag.ID,
		VisitDate: strPtr("2026-05-01"),
	}
	require.NoError(t, repo.CreateCard(ctx, card))
	require.NotEmpty(t, card.ID)

	got, err := repo.GetCard(ctx, "u1", card.ID)
	require.NoError(t, err)
	assert.Equal(t, col.ID, got.ColumnID, "card persists with the given column id")
	assert.Equal(t, "Maria", got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "5511999990000", *got.Phone)
	require.NotNil(t, got.Tag)
	assert.Equal(t, "VIP", got.Tag.Name)
	require.NotNil(t, got.VisitDate)
	assert.Equal(t, "2026-05-01", *got.VisitDate)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

	got.Name = "Maria Silva"
	got.Phone = nil
	require.NoError(t, repo.UpdateCard(ctx, got))

	got, err = repo.GetCard(ctx, "u1", card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.Name)
	assert.Nil(t, got.Phone)

	require.NoError(t, repo.DeleteCard(ctx, "u1", card.ID))
	_, err = repo.GetCard(ctx, "u1", card.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

// TestListCardsOrderAndFilters tests newest-first ordering, search and tag filters
func TestListCardsOrderAndFilters(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col := createTestColumn(t, repo, "u1", "New Leads")
	vip := createTestTag(t, repo, "u1", "VIP")
	promo := createTestTag(t, repo, "u1", "Promo")

	first := createTestCard(t, repo, "u1", col.ID, "Alice")
	second := &models.Card{UserID: "u1", ColumnID: col.ID, Name: "Bob", Phone: strPtr("5521888"), TagID: &vip.ID}
	require.NoError(t, repo.CreateCard(ctx, second))
	third := createTestCard(t, repo, "u1", col.ID, "Carol")
	require.NoError(t, repo.AddCardTag(ctx, "u1", third.ID, promo.ID))

	all, err := repo.ListCards(ctx, "u1", CardFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID},
		"cards should be newest first")

	other := createTestColumn(t, repo, "u1", "Closed")
	createTestCard(t, repo, "u1", other.ID, "JOSÉ Silva")
	createTestCard(t, repo, "u1", other.ID, "Ana_Paula")

	tests := []struct {
		name   string
		filter CardFilter
		want   []string
	}{
		{"search name case-insensitive", CardFilter{Search: "ALI"}, []string{"Alice"}},
		{"search phone", CardFilter{Search: "5521"}, []string{"Bob"}},
		{"primary tag", CardFilter{TagID: vip.ID}, []string{"Bob"}},
		{"associated tag", CardFilter{TagID: promo.ID}, []string{"Carol"}},
		{"column", CardFilter{ColumnID: col.ID}, []string{"Carol", "Bob", "Alice"}},
		{"search accented name", CardFilter{Search: "josé"}, []string{"JOSÉ Silva"}},
		{"underscore is literal", CardFilter{Search: "_"}, []string{"Ana_Paula"}},
		{"percent is literal", CardFilter{Search: "%"}, []string{}},
		{"search within column", CardFilter{Search: "silva", ColumnID: other.ID}, []string{"JOSÉ Silva"}},
		{"no match", CardFilter{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := repo.ListCards(ctx, "u1", tt.filter)
			require.NoError(t, err)
			names := []string{}
			for _, c := range cards {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMoveCard(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	from := createTestColumn(t, repo, "u1", "From")
	to := createTestColumn(t, repo, "u1", "To")
	card := createTestCard(t, repo, "u1", from.ID, "Lead")

	require.NoError(t, repo.MoveCard(ctx, "u1", card.ID, to.ID))

	got, err := repo.GetCard(ctx, "u1", card.ID)
	require.NoError(t, err)
	assert.Equal(t, to.ID, got.ColumnID)

	assert.ErrorIs(t, repo.MoveCard(ctx, "u2", card.ID, from.ID), ErrNotFound)
}

// TestCardTags tests association add/remove and tag deletion side effects
func TestCardTags(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	col := createTestColumn(t, repo, "u1", "New Leads")
	tag := createTestTag(t, repo, "u1", "Hot")
	other := createTestTag(t, repo, "u1", "Cold")

	card := &models.Card{UserID: "u1", ColumnID: col.ID, Name: "Lead", TagID: &tag.ID}
	require.NoError(t, repo.CreateCard(ctx, card))

	require.NoError(t, repo.AddCardTag(ctx, "u1", card.ID, other.ID))
	require.NoError(t, repo.AddCardTag(ctx, "u1", card.ID, other.ID), "adding twice is idempotent")

	tags, err := repo.ListCardTags(ctx, "u1", card.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Cold", tags[0].Name)

	links, err := repo.ListAllCardTags(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, links, 1)

	// Deleting the primary tag clears it from the card
	require.NoError(t, repo.DeleteTag(ctx, "u1", tag.ID))
	got, err := repo.GetCard(ctx, "u1", card.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TagID)
	assert.Nil(t, got.Tag)
	require.Len(t, got.Tags, 1)

	require.NoError(t, repo.RemoveCardTag(ctx, "u1", card.ID, other.ID))
	assert.ErrorIs(t, repo.RemoveCardTag(ctx, "u1", card.ID, other.ID), ErrNotFound)
}
