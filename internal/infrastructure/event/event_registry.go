package event

import (
	"github.com/crmcore/backend/internal/domain/customer"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(customer.EventTypeCustomerCreated, &customer.CustomerCreatedEvent{})
	serializer.Register(customer.EventTypeCustomerUpdated, &customer.CustomerUpdatedEvent{})
	serializer.Register(customer.EventTypeCreditAdded, &customer.CreditAddedEvent{})
	serializer.Register(customer.EventTypeCustomerDeleted, &customer.CustomerDeletedEvent{})
}
