package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// HubOptions tunes queue sizes and the keep-alive period
type HubOptions struct {
	BroadcastBuffer int
	ClientBuffer    int
	PingInterval    time.Duration
}

func (o *HubOptions) applyDefaults() {
	if o.BroadcastBuffer <= 0 {
		o.BroadcastBuffer = 100
	}
	if o.ClientBuffer <= 0 {
		o.ClientBuffer = 10
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
}

// client is one subscriber stream
type client struct {
	userID    string // empty = every user's events
	send      chan Message
	stop      chan struct{}
	closeOnce sync.Once // Ensures channels are closed only once
}

// Subscription is a live event stream for one user. Messages arrive on C
// until Close is called, the subscribing context ends, or the hub shuts
// down; C is closed afterwards.
type Subscription struct {
	C   <-chan Message
	hub *Hub
	c   *client
}

// Close detaches the subscription from the hub
func (s *Subscription) Close() {
	s.hub.removeClient(s.c)
}

// Hub fans change events out to subscribed clients in-process
type Hub struct {
	clients          map[*client]bool
	mu               sync.RWMutex
	broadcast        chan Event
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	pingInterval     time.Duration
	done             chan struct{}
	closed           atomic.Bool
	shutdownOnce     sync.Once
}

// NewHub creates a hub; call Run to start delivering events
func NewHub(opts HubOptions) *Hub {
	opts.applyDefaults()
	return &Hub{
		clients:          make(map[*client]bool),
		broadcast:        make(chan Event, opts.BroadcastBuffer),
		metrics:          NewMetrics(),
		clientBufferSize: opts.ClientBuffer,
		pingInterval:     opts.PingInterval,
		done:             make(chan struct{}),
	}
}

// Run distributes events and keep-alive pings until ctx is cancelled or
// Shutdown is called.
func (h *Hub) Run(ctx context.Context) error {
	slog.Info("event hub started", "client_buffer", h.clientBufferSize, "ping_interval", h.pingInterval)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return nil
		case <-h.done:
			return nil
		case event := <-h.broadcast:
			h.dispatch(event)
		case <-ticker.C:
			h.ping()
		}
	}
}

// SendEvent queues an event for delivery (non-blocking)
func (h *Hub) SendEvent(event Event) error {
	if h.closed.Load() {
		return ErrHubClosed
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
		h.metrics.IncEventsPublished()
		return nil
	default:
		return ErrBroadcastFull
	}
}

// Subscribe registers a stream for userID's events. The subscription is
// removed when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if h.closed.Load() {
		return nil, ErrHubClosed
	}

	c := &client{
		userID: userID,
		send:   make(chan Message, h.clientBufferSize),
		stop:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.updateClientCount()

	slog.Debug("client subscribed", "user_id", userID, "clients", h.getClientCount())

	go func() {
		select {
		case <-ctx.Done():
			h.removeClient(c)
		case <-c.stop:
		}
	}()

	return &Subscription{C: c.send, hub: h, c: c}, nil
}

// Metrics returns a snapshot of the hub counters
func (h *Hub) Metrics() MetricsSnapshot {
	return h.metrics.Snapshot()
}

// Shutdown detaches every client and stops Run
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		slog.Info("shutting down event hub")
		h.closed.Store(true)
		close(h.done)

		h.mu.RLock()
		clients := make([]*client, 0, len(h.clients))
		for c := range h.clients {
			clients = append(clients, c)
		}
		h.mu.RUnlock()

		for _, c := range clients {
			h.removeClient(c)
		}
	})
}

// dispatch stamps an event with the next sequence id and sends it to every
// interested client.
func (h *Hub) dispatch(event Event) {
	event.SequenceID = h.sequenceCounter.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if event.UserID != "" && c.userID != "" && c.userID != event.UserID {
			continue
		}
		ev := event
		// Non-blocking send - if client is slow, skip
		if !h.sendToClient(c, Message{Type: "event", Event: &ev}) {
			slog.Warn("client send queue full, event dropped", "user_id", c.userID, "sequence_id", ev.SequenceID)
		}
	}
}

// ping sends a keep-alive to every client
func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		h.sendToClient(c, Message{Type: "ping", Event: &Event{Type: EventPing, Timestamp: time.Now()}})
	}
}

// Helper methods

func (h *Hub) getClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) updateClientCount() {
	h.metrics.SetConnectedClients(int32(h.getClientCount()))
}

// removeClient safely removes a client from the hub. Once it is out of the
// map no sender can reach it, so closing its channels is safe.
func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.closeOnce.Do(func() {
		close(c.stop)
		close(c.send)
	})

	h.updateClientCount()
}

// sendToClient attempts to send a message to a client (non-blocking)
// Returns true if successful, false if the queue is full
func (h *Hub) sendToClient(c *client, msg Message) bool {
	select {
	case c.send <- msg:
		h.metrics.IncEventsSent()
		return true
	default:
		h.metrics.IncEventsDropped()
		return false
	}
}
