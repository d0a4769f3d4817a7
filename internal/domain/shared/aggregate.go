package shared

// AggregateRoot is an entity that records domain events and carries a version
// counter for optimistic locking.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	PullDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot implements AggregateRoot for embedding. The event buffer
// is not persisted; events are drained into the outbox on save.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot returns an aggregate root at version 1 with an empty
// event buffer.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent buffers an event for publication after the aggregate is
// saved.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered events without draining them.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// PullDomainEvents drains the buffer: the returned slice holds every pending
// event, and a second call returns nothing until new events are recorded.
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := make([]DomainEvent, len(a.domainEvents))
	copy(events, a.domainEvents)
	a.domainEvents = nil
	return events
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
