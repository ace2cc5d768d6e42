package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/testutil"
)

// ============================================================================
// Message extraction
// ============================================================================

func TestMessageText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"hello"`, "hello"},
		{"content wins", `{"content":"a","text":"b","message":"c"}`, "a"},
		{"text before message", `{"text":"b","message":"c"}`, "b"},
		{"message field", `{"message":"c"}`, "c"},
		{"empty content skipped", `{"content":"","text":"b"}`, "b"},
		{"no known field", `{"foo":1}`, "{\n  \"foo\": 1\n}"},
		{"number", `42`, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageText(json.RawMessage(tt.raw)))
		})
	}
}

func TestMessageRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{`{"role":"ai","sender":"x"}`, "ai"},
		{`{"sender":"bot","type":"x"}`, "bot"},
		{`{"type":"ai"}`, "ai"},
		{`{"content":"hi"}`, DefaultRole},
		{`"hi"`, DefaultRole},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MessageRole(json.RawMessage(tt.raw)), tt.raw)
	}
}

func TestPhoneNumber(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "5511999990000", PhoneNumber("5511999990000@s.whatsapp.net"))
	assert.Equal(t, "abc", PhoneNumber("abc"))
}

// ============================================================================
// Grouping
// ============================================================================

func TestGroupSessions(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := func(id int64, sess, raw string, at time.Duration) *models.ChatMessage {
		return &models.ChatMessage{ID: id, SessionID: sess, Message: json.RawMessage(raw), CreatedAt: base.Add(at)}
	}

	sessions := GroupSessions([]*models.ChatMessage{
		msg(1, "111@wa", `{"content":"first"}`, 0),
		msg(2, "222@wa", `"other"`, time.Minute),
		msg(3, "111@wa", `{"content":"latest"}`, 2*time.Minute),
	})

	require.Len(t, sessions, 2)
	assert.Equal(t, "111@wa", sessions[0].SessionID)
	assert.Equal(t, "111", sessions[0].PhoneNumber)
	assert.Equal(t, 2, sessions[0].MessageCount)
	assert.Equal(t, "latest", sessions[0].LastMessage)
	assert.Equal(t, base.Add(2*time.Minute), sessions[0].LastActivity)
	assert.Equal(t, "222@wa", sessions[1].SessionID)

	assert.Empty(t, GroupSessions(nil))
}

// ============================================================================
// Service
// ============================================================================

func TestService_AppendAndRead(t *testing.T) {
	t.Parallel()
	_, repo := testutil.SetupTestRepo(t)
	rec := testutil.NewEventRecorder()
	svc := NewService(repo, rec)
	ctx := context.Background()

	_, err := svc.Append(ctx, "111@wa", json.RawMessage(`{"role":"human","content":"oi"}`))
	require.NoError(t, err)
	_, err = svc.Append(ctx, "111@wa", json.RawMessage(`{"role":"ai","content":"hello"}`))
	require.NoError(t, err)

	sess, err := svc.Session(ctx, "111@wa")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "oi", MessageText(sess.Messages[0].Message))
	assert.Equal(t, "hello", sess.LastMessage)

	all, err := svc.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.Equal(t, 2, rec.Count())
	assert.Equal(t, events.EntityChat, rec.Events()[0].Entity)
	assert.Empty(t, rec.Events()[0].UserID, "chat events go to every subscriber")
}

func TestService_Errors(t *testing.T) {
	t.Parallel()
	_, repo := testutil.SetupTestRepo(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Append(ctx, " ", json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, ErrEmptySessionID)

	_, err = svc.Append(ctx, "s", json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = svc.Session(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
