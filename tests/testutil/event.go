package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/shared"
)

// RecordingEventHandler implements shared.EventHandler and remembers every
// event it receives, for asserting on dispatcher behavior.
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	failWith   error
}

// NewRecordingEventHandler subscribes to the given event types; with none it
// receives everything.
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.failWith
}

// Received returns a copy of the events seen so far.
func (h *RecordingEventHandler) Received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.received))
	copy(out, h.received)
	return out
}

// ReceivedCount returns how many events have been handled.
func (h *RecordingEventHandler) ReceivedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

// FailWith makes every subsequent Handle call return err.
func (h *RecordingEventHandler) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failWith = err
}

// Reset drops recorded events and clears any injected error.
func (h *RecordingEventHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = nil
	h.failWith = nil
}

// StubEvent is a minimal domain event for exercising the event plumbing.
type StubEvent struct {
	shared.BaseDomainEvent
	Payload string
}

// NewStubEvent builds a stub event of the given type on a fresh aggregate.
func NewStubEvent(eventType string) *StubEvent {
	return NewStubEventWithID(uuid.New(), eventType)
}

// NewStubEventWithID builds a stub event with a caller-chosen event ID, for
// tests that assert on deduplication.
func NewStubEventWithID(eventID uuid.UUID, eventType string) *StubEvent {
	base := shared.NewBaseDomainEvent(eventType, "StubAggregate", uuid.New())
	base.ID = eventID
	return &StubEvent{BaseDomainEvent: base, Payload: "stub-payload"}
}

// WaitForReceived blocks until the handler has seen at least count events
// or the timeout passes.
func WaitForReceived(t *testing.T, handler *RecordingEventHandler, count int, timeout time.Duration) bool {
	t.Helper()

	return WaitFor(t, func() bool {
		return handler.ReceivedCount() >= count
	}, timeout)
}
