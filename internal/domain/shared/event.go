package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened in the domain, recorded by an
// aggregate and delivered through the outbox.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// VersionedEvent is a DomainEvent whose payload schema can evolve. Events
// implement it when consumers must keep reading payloads written under older
// schemas.
type VersionedEvent interface {
	DomainEvent
	// SchemaVersion is 1-based; events that never set a version are
	// treated as version 1.
	SchemaVersion() int
}

// BaseDomainEvent carries the fields every domain event shares. Embed it and
// add the event-specific payload fields alongside.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	Version   int       `json:"schema_version,omitempty"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }

func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }

// SchemaVersion maps the zero value to 1 so payloads written before
// versioning existed stay readable.
func (e *BaseDomainEvent) SchemaVersion() int {
	if e.Version == 0 {
		return 1
	}
	return e.Version
}

// NewBaseDomainEvent stamps a fresh event at schema version 1.
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
		Version:   1,
	}
}
