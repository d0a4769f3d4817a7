package event

import (
	"context"
	"fmt"

	"github.com/crmcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events into the outbox table inside the same
// transaction as the aggregate change that produced them.
type OutboxPublisher struct {
	serializer *EventSerializer
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)

// NewOutboxPublisher returns a publisher using the given serializer for
// payloads.
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// PublishWithTx serializes the events and saves them as pending outbox
// entries on the given transaction, so they commit or roll back together with
// the caller's writes.
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// SaveEvents implements shared.OutboxEventSaver. The domain layer passes the
// transaction as an opaque value, so it is asserted back to *gorm.DB here.
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}
	return p.PublishWithTx(ctx, tx, events...)
}
