package events

import (
	"errors"
	"log/slog"
	"time"
)

// notifyAttempts bounds NotifyChanged's retries on a full queue
const notifyAttempts = 3

// PublishWithRetry sends event, retrying with doubling pauses (50ms, 100ms,
// ...) while the hub queue is full. Other errors, such as a closed hub, end
// the attempts at once. A nil publisher is a no-op.
func PublishWithRetry(client EventPublisher, event Event, attempts int) error {
	if client == nil {
		return nil
	}

	delay := 50 * time.Millisecond
	var err error
	for i := range max(attempts, 1) {
		if err = client.SendEvent(event); err == nil {
			if i > 0 {
				slog.Debug("event published after retry", "attempt", i+1, "event_type", event.Type)
			}
			return nil
		}
		if !errors.Is(err, ErrBroadcastFull) || i == attempts-1 {
			break
		}
		time.Sleep(delay)
		delay *= 2
	}

	slog.Warn("event publish failed",
		"event_type", event.Type,
		"user_id", event.UserID,
		"entity", event.Entity,
		"error", err)
	return err
}

// NotifyChanged publishes a db_changed event for one entity of a user.
// Failures are logged and otherwise ignored.
func NotifyChanged(client EventPublisher, userID, entity, entityID string) {
	_ = PublishWithRetry(client, Event{
		Type:      EventDatabaseChanged,
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}, notifyAttempts)
}
