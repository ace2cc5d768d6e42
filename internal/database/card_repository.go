package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/motoloc/motocrm/internal/models"
)

// CardFilter narrows ListCards. Zero values disable a criterion.
type CardFilter struct {
	Search   string // case-insensitive substring of name or phone
	TagID    string // primary tag or associated tag
	ColumnID string
}

// CardReader defines read operations for cards.
type CardReader interface {
	ListCards(ctx context.Context, userID string, filter CardFilter) ([]*models.Card, error)
	GetCard(ctx context.Context, userID, id string) (*models.Card, error)
}

// CardWriter defines write operations for cards.
type CardWriter interface {
	CreateCard(ctx context.Context, card *models.Card) error
	UpdateCard(ctx context.Context, card *models.Card) error
	MoveCard(ctx context.Context, userID, id, columnID string) error
	DeleteCard(ctx context.Context, userID, id string) error
}

// CardTagRepository defines the card-to-tag association operations.
type CardTagRepository interface {
	AddCardTag(ctx context.Context, userID, cardID, tagID string) error
	RemoveCardTag(ctx context.Context, userID, cardID, tagID string) error
	ListCardTags(ctx context.Context, userID, cardID string) ([]*models.Tag, error)
	ListAllCardTags(ctx context.Context, userID string) ([]*models.CardTag, error)
}

// CardRepository combines all card-related operations.
type CardRepository interface {
	CardReader
	CardWriter
	CardTagRepository
}

// CardRepo handles all card-related database operations.
type CardRepo struct {
	db *sql.DB
}

const cardSelect = `SELECT id, user_id, column_id, name, phone, tag_id, visit_date, created_at, updated_at FROM cards`

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	card := &models.Card{}
	var phone, tagID, visitDate sql.NullString
	err := row.Scan(&card.ID, &card.UserID, &card.ColumnID, &card.Name,
		&phone, &tagID, &visitDate, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	card.Phone = nullStringToPtr(phone)
	card.TagID = nullStringToPtr(tagID)
	card.VisitDate = nullStringToPtr(visitDate)
	return card, nil
}

// ListCards returns the user's cards, newest first, with their tags loaded
func (r *CardRepo) ListCards(ctx context.Context, userID string, filter CardFilter) ([]*models.Card, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if filter.TagID != "" {
		where = append(where, "(tag_id = ? OR id IN (SELECT card_id FROM card_tags WHERE tag_id = ?))")
		args = append(args, filter.TagID, filter.TagID)
	}
	if filter.ColumnID != "" {
		where = append(where, "column_id = ?")
		args = append(args, filter.ColumnID)
	}

	query := cardSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at DESC, id DESC"
	cards, err := r.queryCards(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	cards = searchCards(cards, filter.Search)
	if err := r.attachTags(ctx, userID, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// searchCards keeps the cards whose name or phone contains search, folding
// case with Unicode rules. LIKE folds ASCII only and treats % and _ as
// wildcards.
func searchCards(cards []*models.Card, search string) []*models.Card {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return cards
	}
	out := []*models.Card{}
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Name), search) ||
			(c.Phone != nil && strings.Contains(strings.ToLower(*c.Phone), search)) {
			out = append(out, c)
		}
	}
	return out
}

func (r *CardRepo) queryCards(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	cards := []*models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// attachTags fills the primary Tag and associated Tags of each card
func (r *CardRepo) attachTags(ctx context.Context, userID string, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tags, err := (&TagRepo{db: r.db}).ListTags(ctx, userID)
	if err != nil {
		return err
	}
	byID := make(map[string]*models.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	links, err := r.ListAllCardTags(ctx, userID)
	if err != nil {
		return err
	}
	byCard := make(map[string][]*models.Tag)
	for _, l := range links {
		if t, ok := byID[l.TagID]; ok {
			byCard[l.CardID] = append(byCard[l.CardID], t)
		}
	}

	for _, c := range cards {
		if c.TagID != nil {
			c.Tag = byID[*c.TagID]
		}
		c.Tags = byCard[c.ID]
	}
	return nil
}

// GetCard retrieves a single card owned by the user, with its tags
func (r *CardRepo) GetCard(ctx context.Context, userID, id string) (*models.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, cardSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	if err := r.attachTags(ctx, userID, []*models.Card{card}); err != nil {
		return nil, err
	}
	return card, nil
}

// CreateCard inserts card, assigning its ID and timestamps
func (r *CardRepo) CreateCard(ctx context.Context, card *models.Card) error {
	card.ID = newID()
	card.CreatedAt = now()
	card.UpdatedAt = card.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (id, user_id, column_id, name, phone, tag_id, visit_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.UserID, card.ColumnID, card.Name,
		ptrToNullString(card.Phone), ptrToNullString(card.TagID), ptrToNullString(card.VisitDate),
		card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating card: %w", err)
	}
	return nil
}

// UpdateCard writes every editable field of card
func (r *CardRepo) UpdateCard(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE cards SET column_id = ?, name = ?, phone = ?, tag_id = ?, visit_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		card.ColumnID, card.Name,
		ptrToNullString(card.Phone), ptrToNullString(card.TagID), ptrToNullString(card.VisitDate),
		card.UpdatedAt, card.ID, card.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// MoveCard places a card in another column
func (r *CardRepo) MoveCard(ctx context.Context, userID, id, columnID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cards SET column_id = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		columnID, now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteCard removes a card and its tag associations
func (r *CardRepo) DeleteCard(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ============================================================================
// Card Tag Associations
// ============================================================================

// AddCardTag associates a tag with a card. Adding an existing association
// is a no-op.
func (r *CardRepo) AddCardTag(ctx context.Context, userID, cardID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO card_tags (id, user_id, card_id, tag_id, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(card_id, tag_id) DO NOTHING`,
		newID(), userID, cardID, tagID, now())
	return err
}

// RemoveCardTag drops an association
func (r *CardRepo) RemoveCardTag(ctx context.Context, userID, cardID, tagID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM card_tags WHERE card_id = ? AND tag_id = ? AND user_id = ?`,
		cardID, tagID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListCardTags returns the tags associated with a card, ordered by name
func (r *CardRepo) ListCardTags(ctx context.Context, userID, cardID string) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.name, t.color, t.created_at, t.updated_at
		 FROM card_tags ct JOIN tags t ON t.id = ct.tag_id
		 WHERE ct.card_id = ? AND ct.user_id = ?
		 ORDER BY t.name`, cardID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying card tags: %w", err)
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

// ListAllCardTags returns every association owned by the user
func (r *CardRepo) ListAllCardTags(ctx context.Context, userID string) ([]*models.CardTag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, card_id, tag_id, created_at FROM card_tags WHERE user_id = ? ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying card tags: %w", err)
	}
	defer rows.Close()

	links := []*models.CardTag{}
	for rows.Next() {
		l := &models.CardTag{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.CardID, &l.TagID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning card tag row: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
