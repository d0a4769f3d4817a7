package customer

import (
	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/crmcore/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated = "CustomerCreated"
	EventTypeCustomerUpdated = "CustomerUpdated"
	EventTypeCreditAdded     = "CreditAdded"
	EventTypeCustomerDeleted = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		FirstName:       customer.FirstName,
		LastName:        customer.LastName,
		Email:           customer.EmailAddress(),
		Phone:           customer.PhoneNumber(),
	}
}

// CustomerUpdatedEvent is published when a customer's details change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		FirstName:       customer.FirstName,
		LastName:        customer.LastName,
		Email:           customer.EmailAddress(),
		Phone:           customer.PhoneNumber(),
	}
}

// CreditAddedEvent is published when credit is added to a customer.
// NewTotalCredit carries the balance after the addition, so consumers
// can order concurrent additions without reading the aggregate.
type CreditAddedEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID `json:"customer_id"`
	Amount         float64   `json:"amount"`
	NewTotalCredit float64   `json:"new_total_credit"`
}

// NewCreditAddedEvent creates a new CreditAddedEvent
func NewCreditAddedEvent(customer *Customer, amount valueobject.Credit) *CreditAddedEvent {
	return &CreditAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditAdded, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Amount:          amount.Float64(),
		NewTotalCredit:  customer.AvailableCredit(),
	}
}

// CustomerDeletedEvent is published when a customer is deleted
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(customer *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Email:           customer.EmailAddress(),
	}
}
