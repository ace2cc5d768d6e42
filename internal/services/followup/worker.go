package followup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/motoloc/motocrm/internal/events"
)

// Worker polls for due follow-ups and announces each one once. Delivery of
// the message itself happens elsewhere; whoever sends it calls MarkSent.
type Worker struct {
	svc         Service
	eventClient events.EventPublisher
	interval    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	notified map[string]int // contact id -> idx already announced
}

// NewWorker creates a worker polling every interval
func NewWorker(svc Service, eventClient events.EventPublisher, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{
		svc:         svc,
		eventClient: eventClient,
		interval:    interval,
		now:         time.Now,
		notified:    make(map[string]int),
	}
}

// Run polls until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("follow-up worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
			slog.Error("follow-up poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("follow-up worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Poll runs one scan and returns how many new due items were announced
func (w *Worker) Poll(ctx context.Context) (int, error) {
	due, err := w.svc.DueAll(ctx, w.now())
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// only contacts still due are remembered, so finished ones drop out
	notified := make(map[string]int, len(due))
	announced := 0
	for _, d := range due {
		if idx, ok := w.notified[d.Contact.ID]; ok && idx == d.FollowUp.Idx {
			notified[d.Contact.ID] = idx
			continue
		}

		err := events.PublishWithRetry(w.eventClient, events.Event{
			Type:      events.EventFollowUpDue,
			UserID:    d.Contact.UserID,
			Entity:    events.EntityContact,
			EntityID:  d.Contact.ID,
			Timestamp: w.now(),
		}, 3)
		if err != nil {
			slog.Warn("failed to announce follow-up, retrying next poll",
				"contact_id", d.Contact.ID, "idx", d.FollowUp.Idx, "error", err)
			continue
		}
		notified[d.Contact.ID] = d.FollowUp.Idx
		announced++

		slog.Info("follow-up due",
			"user_id", d.Contact.UserID,
			"contact_id", d.Contact.ID,
			"phone", d.Contact.Phone,
			"idx", d.FollowUp.Idx,
			"due_at", d.DueAt)
	}
	w.notified = notified
	return announced, nil
}
