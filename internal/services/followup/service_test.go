package followup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/testutil"
)

func setupService(t *testing.T) (Service, *testutil.EventRecorder) {
	t.Helper()
	_, repo := testutil.SetupTestRepo(t)
	recorder := testutil.NewEventRecorder()
	return NewService(repo, recorder), recorder
}

func intPtr(i int) *int { return &i }

// ============================================================================
// CONFIGURATION
// ============================================================================

func TestListFollowUps_SeedsDefaults(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	list, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 4)

	for i, f := range list {
		assert.Equal(t, i+1, f.Idx)
		assert.Equal(t, models.DefaultFollowUpDelays[i], f.DelayValue)
		assert.Equal(t, models.DelayDays, f.DelayUnit)
		assert.True(t, f.Active)
		assert.Equal(t, models.DefaultFollowUpMessage, f.Message)
	}

	// Listing again does not seed twice
	again, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, again, 4)
	assert.Equal(t, list[0].ID, again[0].ID)
}

func TestUpdateFollowUp(t *testing.T) {
	t.Parallel()
	svc, recorder := setupService(t)
	ctx := context.Background()

	list, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	id := list[0].ID

	msg := "Still interested in the scooter?"
	unit := models.DelayMinutes
	f, err := svc.UpdateFollowUp(ctx, UpdateFollowUpRequest{
		UserID: "u1", ID: id, Message: &msg, DelayValue: intPtr(30), DelayUnit: &unit,
	})
	require.NoError(t, err)
	assert.Equal(t, msg, f.Message)
	assert.Equal(t, 30*time.Minute, f.Delay())
	assert.Equal(t, 1, recorder.Count())

	bad := models.DelayUnit("weeks")
	tests := []struct {
		name    string
		req     UpdateFollowUpRequest
		wantErr error
	}{
		{"negative delay", UpdateFollowUpRequest{UserID: "u1", ID: id, DelayValue: intPtr(-1)}, ErrNegativeDelay},
		{"bad unit", UpdateFollowUpRequest{UserID: "u1", ID: id, DelayUnit: &bad}, ErrInvalidDelayUnit},
		{"missing id", UpdateFollowUpRequest{UserID: "u1"}, ErrInvalidFollowUpID},
		{"other user", UpdateFollowUpRequest{UserID: "u2", ID: id, Message: &msg}, ErrFollowUpNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateFollowUp(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestToggleFollowUp(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	list, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)

	f, err := svc.ToggleFollowUp(ctx, "u1", list[1].ID)
	require.NoError(t, err)
	assert.False(t, f.Active)

	f, err = svc.ToggleFollowUp(ctx, "u1", list[1].ID)
	require.NoError(t, err)
	assert.True(t, f.Active)

	_, err = svc.ToggleFollowUp(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrFollowUpNotFound)
}

// ============================================================================
// SCHEDULING
// ============================================================================

func TestDue(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	steps, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)

	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	c, err := svc.UpsertContact(ctx, UpsertContactRequest{UserID: "u1", Phone: "5511", Name: "Ana", LastContactAt: start})
	require.NoError(t, err)

	// Step 1 waits one day
	due, err := svc.Due(ctx, "u1", start.Add(23*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = svc.Due(ctx, "u1", start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].FollowUp.Idx)
	assert.True(t, due[0].DueAt.Equal(start.Add(24*time.Hour)))

	// After sending step 1, step 2 (inactive) is skipped in favour of step 3
	sentAt := start.Add(24 * time.Hour)
	require.NoError(t, svc.MarkSent(ctx, "u1", c.ID, 1, sentAt))
	_, err = svc.ToggleFollowUp(ctx, "u1", steps[1].ID)
	require.NoError(t, err)

	due, err = svc.Due(ctx, "u1", sentAt.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 3, due[0].FollowUp.Idx)

	// Finished contacts are never due
	require.NoError(t, svc.FinishContact(ctx, "u1", c.ID))
	due, err = svc.Due(ctx, "u1", sentAt.Add(365*24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	assert.ErrorIs(t, svc.MarkSent(ctx, "u1", c.ID, 3, sentAt), ErrContactFinished)
}

func TestDue_SequenceExhausted(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	c, err := svc.UpsertContact(ctx, UpsertContactRequest{UserID: "u1", Phone: "5511"})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, svc.MarkSent(ctx, "u1", c.ID, 4, now))

	due, err := svc.Due(ctx, "u1", now.Add(1000*24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestUpsertContact_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)

	_, err := svc.UpsertContact(context.Background(), UpsertContactRequest{UserID: "u1", Phone: "  "})
	assert.ErrorIs(t, err, ErrEmptyPhone)
	assert.ErrorIs(t, svc.MarkSent(context.Background(), "u1", "c", 0, time.Now()), ErrInvalidIdx)
	assert.ErrorIs(t, svc.FinishContact(context.Background(), "u1", "missing"), ErrContactNotFound)
}

func TestNextStep(t *testing.T) {
	steps := []*models.FollowUp{
		{Idx: 1, Active: true},
		{Idx: 2, Active: false},
		{Idx: 3, Active: true},
	}

	assert.Equal(t, 1, NextStep(steps, 0).Idx)
	assert.Equal(t, 3, NextStep(steps, 1).Idx)
	assert.Nil(t, NextStep(steps, 3))
}

// ============================================================================
// WORKER
// ============================================================================

func TestWorker_AnnouncesOnce(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	c, err := svc.UpsertContact(ctx, UpsertContactRequest{UserID: "u1", Phone: "5511", LastContactAt: start})
	require.NoError(t, err)

	recorder := testutil.NewEventRecorder()
	w := NewWorker(svc, recorder, time.Minute)
	w.now = func() time.Time { return start.Add(25 * time.Hour) }

	n, err := w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "the same step is announced only once")

	require.Equal(t, 1, recorder.Count())
	ev := recorder.Events()[0]
	assert.Equal(t, events.EventFollowUpDue, ev.Type)
	assert.Equal(t, c.ID, ev.EntityID)
	assert.Equal(t, "u1", ev.UserID)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	w := NewWorker(svc, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// switchPublisher fails every send while down is set
type switchPublisher struct {
	down  bool
	sends int
}

func (p *switchPublisher) SendEvent(events.Event) error {
	if p.down {
		return errors.New("publisher down")
	}
	p.sends++
	return nil
}

func TestWorker_RetriesAfterPublishFailure(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	_, err = svc.UpsertContact(ctx, UpsertContactRequest{UserID: "u1", Phone: "5511", LastContactAt: start})
	require.NoError(t, err)

	pub := &switchPublisher{down: true}
	w := NewWorker(svc, pub, time.Minute)
	w.now = func() time.Time { return start.Add(25 * time.Hour) }

	n, err := w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a failed publish is not counted")
	assert.Empty(t, w.notified)

	pub.down = false
	n, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the contact is announced once the publisher recovers")
	assert.Equal(t, 1, pub.sends)
}

func TestWorker_ForgetsContactsNoLongerDue(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ListFollowUps(ctx, "u1")
	require.NoError(t, err)
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	var contacts []*models.Contact
	for _, phone := range []string{"5511", "5522"} {
		c, err := svc.UpsertContact(ctx, UpsertContactRequest{UserID: "u1", Phone: phone, LastContactAt: start})
		require.NoError(t, err)
		contacts = append(contacts, c)
	}

	w := NewWorker(svc, testutil.NewEventRecorder(), time.Minute)
	w.now = func() time.Time { return start.Add(25 * time.Hour) }

	n, err := w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, w.notified, 2)

	require.NoError(t, svc.FinishContact(ctx, "u1", contacts[0].ID))
	n, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, w.notified, 1)
	assert.Contains(t, w.notified, contacts[1].ID)
}
