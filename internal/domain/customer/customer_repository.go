package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/crmcore/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence.
// Implementations drain the aggregate's pending domain events into the
// outbox within the same transaction as the state change.
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by email address
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll finds all customers matching the filter.
	// Returns an empty slice, never nil, when nothing matches.
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, error)

	// Count counts customers matching the same filters as FindAll
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new customer.
	// Returns ErrAlreadyExists when the email is already taken.
	Create(ctx context.Context, customer *Customer) error

	// Save updates an existing customer without a version check
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock updates a customer with optimistic locking.
	// Returns ErrConcurrencyConflict when the stored version has moved on.
	SaveWithLock(ctx context.Context, customer *Customer) error

	// SaveWithLockInTx is SaveWithLock inside an existing transaction
	// handle (a *gorm.DB), so callers can commit the customer update
	// together with other writes.
	SaveWithLockInTx(ctx context.Context, txProvider interface{}, customer *Customer) error

	// Delete removes the customer row and publishes its pending events.
	// Returns ErrNotFound when the customer does not exist.
	Delete(ctx context.Context, customer *Customer) error

	// ExistsByEmail checks if a customer with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
