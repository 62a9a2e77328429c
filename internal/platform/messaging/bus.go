package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"retroboard/internal/shared/events"

	"github.com/google/uuid"
)

// Bus is the in-process broadcast channel between the sync engine and
// realtime connections. Sessions fan out to every subscribed connection;
// a connection with a full buffer loses the frame rather than stalling
// the publisher, and clients recover by re-fetching the snapshot.
type Bus struct {
	mu          sync.RWMutex
	service     string
	buffer      int
	logger      *slog.Logger
	connections map[string]chan events.Envelope
	sessions    map[string]map[string]struct{}
	memberships map[string]map[string]struct{}
}

func NewBus(service string, buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 128
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		service:     service,
		buffer:      buffer,
		logger:      logger,
		connections: make(map[string]chan events.Envelope),
		sessions:    make(map[string]map[string]struct{}),
		memberships: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection and returns its frame channel. The channel
// closes on Unsubscribe.
func (b *Bus) Attach(connectionID string) <-chan events.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attachLocked(connectionID)
}

func (b *Bus) attachLocked(connectionID string) chan events.Envelope {
	ch, ok := b.connections[connectionID]
	if !ok {
		ch = make(chan events.Envelope, b.buffer)
		b.connections[connectionID] = ch
	}
	return ch
}

// Subscribe adds the connection to a session's fan-out set.
func (b *Bus) Subscribe(sessionID string, connectionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attachLocked(connectionID)
	if b.sessions[sessionID] == nil {
		b.sessions[sessionID] = make(map[string]struct{})
	}
	b.sessions[sessionID][connectionID] = struct{}{}
	if b.memberships[connectionID] == nil {
		b.memberships[connectionID] = make(map[string]struct{})
	}
	b.memberships[connectionID][sessionID] = struct{}{}
}

// Unsubscribe removes the connection from every session and closes its
// frame channel.
func (b *Bus) Unsubscribe(connectionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sessionID := range b.memberships[connectionID] {
		delete(b.sessions[sessionID], connectionID)
		if len(b.sessions[sessionID]) == 0 {
			delete(b.sessions, sessionID)
		}
	}
	delete(b.memberships, connectionID)

	if ch, ok := b.connections[connectionID]; ok {
		close(ch)
		delete(b.connections, connectionID)
	}
}

func (b *Bus) Publish(ctx context.Context, sessionID string, eventName string, payload any) error {
	envelope := events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      eventName,
		SourceService:  b.service,
		OccurredAtUTC:  time.Now().UTC(),
		EntityType:     "session",
		EntityID:       sessionID,
		PayloadVersion: 1,
		Payload:        payload,
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Sends happen under the read lock so Unsubscribe cannot close a
	// channel mid fan-out. They never block: a full buffer drops the frame.
	delivered := 0
	b.mu.RLock()
	for connectionID := range b.sessions[sessionID] {
		ch, ok := b.connections[connectionID]
		if !ok {
			continue
		}
		select {
		case ch <- envelope:
			delivered++
		default:
			b.logger.Warn("dropping frame for slow connection",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"session_id", sessionID,
				"event_type", eventName,
				"event_id", envelope.EventID,
				"connection_id", connectionID,
			)
		}
	}
	b.mu.RUnlock()

	b.logger.Info("frame published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"session_id", sessionID,
		"event_type", eventName,
		"event_id", envelope.EventID,
		"subscribers", delivered,
	)
	return nil
}
