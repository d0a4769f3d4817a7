package event

import (
	"context"
	"testing"
	"time"

	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubOutboxRepo is an in-memory OutboxRepository for service tests.
type stubOutboxRepo struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newStubOutboxRepo() *stubOutboxRepo {
	return &stubOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *stubOutboxRepo) add(status shared.OutboxStatus, mutate ...func(*shared.OutboxEntry)) *shared.OutboxEntry {
	entry := &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "customer.credit_updated",
		AggregateID:   uuid.New(),
		AggregateType: "Customer",
		Status:        status,
		MaxRetries:    5,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	for _, fn := range mutate {
		fn(entry)
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *stubOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *stubOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
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

func (r *stubOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	total := int64(len(dead))

	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(dead) {
		end = len(dead)
	}
	return dead[start:end], total, nil
}

func (r *stubOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	return r.entries[id], nil
}

func (r *stubOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *stubOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func outboxServiceFixture() (*OutboxService, *stubOutboxRepo) {
	repo := newStubOutboxRepo()
	return NewOutboxService(repo, zap.NewNop()), repo
}

func asDead(e *shared.OutboxEntry) {
	e.RetryCount = e.MaxRetries
	e.LastError = "broker unavailable"
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	service, repo := outboxServiceFixture()

	for i := 0; i < 5; i++ {
		repo.add(shared.OutboxStatusDead, asDead)
	}
	repo.add(shared.OutboxStatusPending)

	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: 1, PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Entries, 5)
	for _, entry := range result.Entries {
		assert.Equal(t, "DEAD", entry.Status)
	}
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	t.Run("dead entry goes back to pending", func(t *testing.T) {
		service, repo := outboxServiceFixture()
		dead := repo.add(shared.OutboxStatusDead, asDead)

		result, err := service.RetryDeadEntry(context.Background(), dead.ID)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", result.Status)
		assert.Zero(t, result.RetryCount)
		assert.Empty(t, result.LastError)
	})

	t.Run("unknown id", func(t *testing.T) {
		service, _ := outboxServiceFixture()

		_, err := service.RetryDeadEntry(context.Background(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("entry that is not dead is rejected", func(t *testing.T) {
		service, repo := outboxServiceFixture()
		pending := repo.add(shared.OutboxStatusPending)

		_, err := service.RetryDeadEntry(context.Background(), pending.ID)
		assert.Error(t, err)
	})
}

func TestOutboxService_GetStats(t *testing.T) {
	service, repo := outboxServiceFixture()

	byStatus := map[shared.OutboxStatus]int{
		shared.OutboxStatusPending:    2,
		shared.OutboxStatusProcessing: 1,
		shared.OutboxStatusSent:       3,
		shared.OutboxStatusFailed:     1,
		shared.OutboxStatusDead:       1,
	}
	for status, n := range byStatus {
		for i := 0; i < n; i++ {
			repo.add(status)
		}
	}

	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(3), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(8), stats.Total)
}

func TestOutboxService_RetryAllDeadEntries(t *testing.T) {
	service, repo := outboxServiceFixture()

	for i := 0; i < 3; i++ {
		repo.add(shared.OutboxStatusDead, asDead)
	}
	sent := repo.add(shared.OutboxStatusSent)

	count, err := service.RetryAllDeadEntries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	for _, entry := range repo.entries {
		if entry.ID == sent.ID {
			assert.Equal(t, shared.OutboxStatusSent, entry.Status)
			continue
		}
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		assert.Zero(t, entry.RetryCount)
	}
}
