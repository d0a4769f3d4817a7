package event

import (
	"encoding/json"
	"testing"

	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEntry_CapturesEventMetadata(t *testing.T) {
	event := newTestEvent("TestEvent")
	payload, err := NewEventSerializer().Serialize(event)
	require.NoError(t, err)

	entry := shared.NewOutboxEntry(event, payload)

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, event.EventID(), entry.EventID)
	assert.Equal(t, "TestEvent", entry.EventType)
	assert.Equal(t, event.AggregateID(), entry.AggregateID)
	assert.Equal(t, "Customer", entry.AggregateType)
	assert.Equal(t, shared.OutboxStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Equal(t, shared.DefaultMaxRetries, entry.MaxRetries)
}

func TestNewOutboxEntry_PayloadRoundTrips(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	event := newTestEvent("TestEvent")
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)

	entry := shared.NewOutboxEntry(event, payload)

	require.True(t, json.Valid(entry.Payload))
	restored, err := serializer.Deserialize(entry.EventType, entry.Payload)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), restored.EventID())
	assert.Equal(t, event.AggregateID(), restored.AggregateID())
}
