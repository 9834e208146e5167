package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veylen/mapletide/internal/constants"
)

// EventType classifies engine events.
type EventType string

const (
	EventEngineStarted      EventType = "engine_started"
	EventEngineStopped      EventType = "engine_stopped"
	EventPlayerStateChanged EventType = "player_state_changed"
	EventMinimapChanged     EventType = "minimap_changed"
	EventActionQueued       EventType = "action_queued"
	EventActionCompleted    EventType = "action_completed"
	EventRuneSolved         EventType = "rune_solved"
	EventRuneFailed         EventType = "rune_failed"
	EventActionsRebuilt     EventType = "actions_rebuilt"
	EventHaltingChanged     EventType = "halting_changed"
)

// Event is one observation published on the bus. Payload shapes are small,
// JSON-marshalable structs so the websocket stream can forward them as-is.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with identity and time.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// PlayerStatePayload accompanies EventPlayerStateChanged.
type PlayerStatePayload struct {
	State string `json:"state"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// ActionPayload accompanies the action lifecycle events.
type ActionPayload struct {
	Action   string `json:"action"`
	Priority bool   `json:"priority"`
}

// MinimapPayload accompanies EventMinimapChanged.
type MinimapPayload struct {
	State string `json:"state"`
	W     int    `json:"w"`
	H     int    `json:"h"`
}

// EventBus distributes events to subscribers.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	bufferSize  int
}

// NewEventBus creates a new event bus.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize < constants.MinEventBusBufferSize {
		bufferSize = constants.MinEventBusBufferSize
	}
	return &EventBus{
		bufferSize: bufferSize,
	}
}

// Subscribe returns a channel that receives events.
// The caller is responsible for reading from the channel to avoid blocking.
func (b *EventBus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *EventBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			close(sub)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers.
// Non-blocking: drops events if a subscriber's buffer is full.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Drop event if buffer is full (non-blocking)
		}
	}
}

// Close closes all subscriber channels.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
