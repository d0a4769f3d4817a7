package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/crmcore/backend/internal/domain/customer"
	"github.com/crmcore/backend/internal/domain/shared"
)

// CustomerAuditHandler writes an audit log line for every customer event.
// It is wrapped in an IdempotentHandler at wiring time so redelivered
// outbox events are logged once.
type CustomerAuditHandler struct {
	logger *zap.Logger
}

// NewCustomerAuditHandler creates a new audit handler for customer events
func NewCustomerAuditHandler(logger *zap.Logger) *CustomerAuditHandler {
	return &CustomerAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CustomerAuditHandler) EventTypes() []string {
	return []string{
		customer.EventTypeCustomerCreated,
		customer.EventTypeCustomerUpdated,
		customer.EventTypeCreditAdded,
		customer.EventTypeCustomerDeleted,
	}
}

// Handle logs the event with type-specific detail fields
func (h *CustomerAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *customer.CustomerCreatedEvent:
		fields = append(fields,
			zap.String("email", e.Email),
			zap.String("full_name", e.FirstName+" "+e.LastName),
		)
	case *customer.CustomerUpdatedEvent:
		fields = append(fields,
			zap.String("email", e.Email),
			zap.String("full_name", e.FirstName+" "+e.LastName),
		)
	case *customer.CreditAddedEvent:
		fields = append(fields,
			zap.Float64("amount", e.Amount),
			zap.Float64("new_total_credit", e.NewTotalCredit),
		)
	case *customer.CustomerDeletedEvent:
		fields = append(fields, zap.String("email", e.Email))
	}

	h.logger.Info("customer event", fields...)
	return nil
}
