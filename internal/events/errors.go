package events

import "errors"

var (
	// ErrHubClosed is returned when publishing to or subscribing on a hub
	// that has been shut down.
	ErrHubClosed = errors.New("event hub closed")

	// ErrBroadcastFull is returned when the broadcast queue cannot take
	// another event.
	ErrBroadcastFull = errors.New("broadcast channel full")
)
