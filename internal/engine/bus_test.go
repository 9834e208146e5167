package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus(0)
	defer bus.Close()
	sub := bus.Subscribe()

	bus.Publish(NewEvent(EventPlayerStateChanged, PlayerStatePayload{State: "idle", X: 3, Y: 4}))

	select {
	case event := <-sub:
		if event.Type != EventPlayerStateChanged {
			t.Errorf("expected player state event, got %v", event.Type)
		}
		if event.ID == uuid.Nil {
			t.Error("expected a stamped event id")
		}
		payload, ok := event.Payload.(PlayerStatePayload)
		if !ok || payload.X != 3 || payload.Y != 4 {
			t.Errorf("expected the payload carried, got %+v", event.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewEventBus(0)
	defer bus.Close()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(NewEvent(EventEngineStarted, nil))

	for _, sub := range []<-chan Event{a, b} {
		select {
		case event := <-sub:
			if event.Type != EventEngineStarted {
				t.Errorf("expected engine started, got %v", event.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber never received the event")
		}
	}
}

func TestBusUnsubscribeCloses(t *testing.T) {
	bus := NewEventBus(0)
	defer bus.Close()
	sub := bus.Subscribe()

	bus.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Error("expected the channel closed on unsubscribe")
	}

	// Publishing after unsubscribe must not panic
	bus.Publish(NewEvent(EventEngineStopped, nil))
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewEventBus(0)
	defer bus.Close()
	sub := bus.Subscribe()

	// One more than the buffer: the publish never blocks, the overflow is
	// dropped
	for i := 0; i < cap(sub)+1; i++ {
		bus.Publish(NewEvent(EventActionQueued, ActionPayload{Action: "move"}))
	}
	if got := len(sub); got != cap(sub) {
		t.Errorf("expected a full buffer with the overflow dropped, got %d of %d", got, cap(sub))
	}
}

func TestBusClose(t *testing.T) {
	bus := NewEventBus(0)
	sub := bus.Subscribe()
	bus.Close()

	if _, ok := <-sub; ok {
		t.Error("expected the channel closed")
	}
	// Idempotent with respect to later publishes
	bus.Publish(NewEvent(EventEngineStopped, nil))
}
