package memory

import (
	"context"
	"sync"
)

// BroadcastRecord captures one published event for test assertions.
type BroadcastRecord struct {
	SessionID string
	EventName string
	Payload   any
}

// BroadcastLog is a Broadcaster that records events in publish order. It
// stands in for the fan-out bus in unit wiring.
type BroadcastLog struct {
	mu      sync.Mutex
	records []BroadcastRecord
}

func NewBroadcastLog() *BroadcastLog {
	return &BroadcastLog{}
}

func (b *BroadcastLog) Publish(_ context.Context, sessionID string, eventName string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, BroadcastRecord{
		SessionID: sessionID,
		EventName: eventName,
		Payload:   payload,
	})
	return nil
}

// Records returns a copy of everything published so far.
func (b *BroadcastLog) Records() []BroadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BroadcastRecord, len(b.records))
	copy(out, b.records)
	return out
}

// RecordsFor filters the log down to one session.
func (b *BroadcastLog) RecordsFor(sessionID string) []BroadcastRecord {
	records := b.Records()
	out := make([]BroadcastRecord, 0, len(records))
	for _, record := range records {
		if record.SessionID == sessionID {
			out = append(out, record)
		}
	}
	return out
}
