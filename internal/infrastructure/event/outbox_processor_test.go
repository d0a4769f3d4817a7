package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockOutboxRepository keeps entries in a map and lets individual methods be
// overridden per test.
type mockOutboxRepository struct {
	mu               sync.Mutex
	entries          map[uuid.UUID]*shared.OutboxEntry
	findPendingFn    func(ctx context.Context, limit int) ([]*shared.OutboxEntry, error)
	findRetryableFn  func(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error)
	markProcessingFn func(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error)
	updateFn         func(ctx context.Context, entry *shared.OutboxEntry) error
	deleteFn         func(ctx context.Context, before time.Time) (int64, error)
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{
		entries: make(map[uuid.UUID]*shared.OutboxEntry),
	}
}

func (r *mockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *mockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	if r.findPendingFn != nil {
		return r.findPendingFn(ctx, limit)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	if r.findRetryableFn != nil {
		return r.findRetryableFn(ctx, before, limit)
	}
	return nil, nil
}

func (r *mockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	if r.markProcessingFn != nil {
		return r.markProcessingFn(ctx, ids)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			e.Status = shared.OutboxStatusProcessing
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	if r.updateFn != nil {
		return r.updateFn(ctx, entry)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if r.deleteFn != nil {
		return r.deleteFn(ctx, before)
	}
	return 0, nil
}

func (r *mockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *mockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id], nil
}

func (r *mockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *mockOutboxRepository) entryStatus(id uuid.UUID) shared.OutboxStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id].Status
}

// runProcessor starts the processor, waits long enough for at least one poll,
// then stops it.
func runProcessor(t *testing.T, processor *OutboxProcessor) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, processor.Start(ctx))

	time.Sleep(200 * time.Millisecond)

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, processor.Stop(stopCtx))
}

func TestOutboxProcessor_DeliversPendingEntries(t *testing.T) {
	logger := zap.NewNop()
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	repo := newMockOutboxRepository()
	eventBus := NewInMemoryEventBus(logger)
	handler := newTestHandler("TestEvent")
	eventBus.Subscribe(handler, "TestEvent")

	event := newTestEvent("TestEvent")
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))

	processor := NewOutboxProcessor(repo, eventBus, serializer, OutboxProcessorConfig{
		BatchSize:    100,
		PollInterval: 50 * time.Millisecond,
	}, logger)
	runProcessor(t, processor)

	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, shared.OutboxStatusSent, repo.entryStatus(entry.ID))
}

func TestOutboxProcessor_StopGracefully(t *testing.T) {
	logger := zap.NewNop()
	processor := NewOutboxProcessor(
		newMockOutboxRepository(),
		NewInMemoryEventBus(logger),
		NewEventSerializer(),
		DefaultOutboxProcessorConfig(),
		logger,
	)

	require.NoError(t, processor.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(stopCtx))
}

func TestOutboxProcessor_UnknownEventTypeFails(t *testing.T) {
	logger := zap.NewNop()
	// serializer with nothing registered, so deserialization must fail
	serializer := NewEventSerializer()

	repo := newMockOutboxRepository()

	event := newTestEvent("UnregisteredEvent")
	entry := shared.NewOutboxEntry(event, []byte(`{"type": "UnregisteredEvent"}`))
	require.NoError(t, repo.Save(context.Background(), entry))

	processor := NewOutboxProcessor(repo, NewInMemoryEventBus(logger), serializer, OutboxProcessorConfig{
		BatchSize:    100,
		PollInterval: 50 * time.Millisecond,
	}, logger)
	runProcessor(t, processor)

	assert.Equal(t, shared.OutboxStatusFailed, repo.entryStatus(entry.ID))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Contains(t, repo.entries[entry.ID].LastError, "unknown event type")
}

func TestDefaultOutboxProcessorConfig(t *testing.T) {
	config := DefaultOutboxProcessorConfig()

	assert.Equal(t, 100, config.BatchSize)
	assert.Equal(t, 5*time.Second, config.PollInterval)
	assert.True(t, config.CleanupEnabled)
	assert.Equal(t, 7*24*time.Hour, config.CleanupRetention)
	assert.Equal(t, time.Hour, config.CleanupInterval)
}
