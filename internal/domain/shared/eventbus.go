package shared

import "context"

// EventHandler consumes domain events delivered by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means
	// every event.
	EventTypes() []string
}

// EventPublisher delivers domain events to subscribed handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler. With no explicit types the handler
	// falls back to its own EventTypes declaration.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the in-process publish/subscribe port used by the
// application layer and the outbox processor.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver persists domain events alongside the aggregate state
// change so both commit or roll back together. Repositories call it from
// inside their write transaction; txProvider carries the open *gorm.DB
// transaction.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
