package messaging

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus("retroboard", 4, nil)
	frames := bus.Attach("conn-1")
	bus.Subscribe("retro-1", "conn-1")
	bus.Subscribe("retro-1", "conn-2")
	other := bus.Attach("conn-2")

	if err := bus.Publish(context.Background(), "retro-1", "session-updated", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	frame := <-frames
	if frame.EventType != "session-updated" || frame.EntityID != "retro-1" {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if frame.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if second := <-other; second.EventID != frame.EventID {
		t.Fatalf("subscribers must see the same event, got %s and %s", frame.EventID, second.EventID)
	}
}

func TestBusScopesBySession(t *testing.T) {
	bus := NewBus("retroboard", 4, nil)
	frames := bus.Attach("conn-1")
	bus.Subscribe("retro-1", "conn-1")

	if err := bus.Publish(context.Background(), "retro-2", "session-updated", nil); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	select {
	case frame := <-frames:
		t.Fatalf("connection must not receive frames for other sessions, got %+v", frame)
	default:
	}
}

func TestBusDropsWhenBufferFull(t *testing.T) {
	bus := NewBus("retroboard", 1, nil)
	frames := bus.Attach("conn-1")
	bus.Subscribe("retro-1", "conn-1")

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := bus.Publish(ctx, "retro-1", "session-updated", i); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	// Only the first frame fits; later ones were dropped, not blocked on.
	frame := <-frames
	if frame.Payload != 0 {
		t.Fatalf("expected first payload retained, got %v", frame.Payload)
	}
	select {
	case frame := <-frames:
		t.Fatalf("expected empty buffer, got %+v", frame)
	default:
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus("retroboard", 4, nil)
	frames := bus.Attach("conn-1")
	bus.Subscribe("retro-1", "conn-1")

	bus.Unsubscribe("conn-1")
	if _, open := <-frames; open {
		t.Fatal("expected channel closed after unsubscribe")
	}

	// Publishing afterwards reaches nobody and must not panic.
	if err := bus.Publish(context.Background(), "retro-1", "session-updated", nil); err != nil {
		t.Fatalf("publish after unsubscribe failed: %v", err)
	}
}

// A disconnect tearing down a connection while frames are fanning out must
// not send on the closed channel. Completing without a panic is the pass
// condition.
func TestBusPublishUnsubscribeRace(t *testing.T) {
	bus := NewBus("retroboard", 1, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		connectionID := fmt.Sprintf("conn-%d", i)
		bus.Attach(connectionID)
		bus.Subscribe("retro-1", connectionID)

		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 32; j++ {
				if err := bus.Publish(ctx, "retro-1", "session-updated", j); err != nil {
					t.Errorf("publish failed: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			bus.Unsubscribe(connectionID)
		}()
	}
	wg.Wait()
}
