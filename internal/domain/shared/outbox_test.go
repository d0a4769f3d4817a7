package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deadLetter() *OutboxEntry {
	return &OutboxEntry{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		EventType:   "customer.credit_updated",
		AggregateID: uuid.New(),
		Status:      OutboxStatusDead,
		RetryCount:  5,
		MaxRetries:  5,
		LastError:   "broker unavailable",
		CreatedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:   time.Now().Add(-time.Minute),
	}
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("claims pending entry", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusPending}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)
	})

	t.Run("claims failed entry", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusFailed}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)
	})

	t.Run("rejects other states", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusProcessing, OutboxStatusSent, OutboxStatusDead} {
			entry := &OutboxEntry{Status: status}
			assert.Error(t, entry.MarkProcessing(), "status %s", status)
		}
	})
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := &OutboxEntry{Status: OutboxStatusProcessing}
	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	require.NotNil(t, entry.ProcessedAt)
	assert.WithinDuration(t, time.Now(), *entry.ProcessedAt, time.Second)
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules retries with doubling backoff", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			Status:     OutboxStatusProcessing,
			MaxRetries: 5,
		}

		expect := []struct {
			retries  int
			min, max time.Duration
		}{
			{1, 0, 2 * time.Second},
			{2, time.Second, 3 * time.Second},
			{3, 3 * time.Second, 5 * time.Second},
		}
		for _, want := range expect {
			entry.Status = OutboxStatusProcessing
			entry.MarkFailed("broker unavailable")

			assert.Equal(t, OutboxStatusFailed, entry.Status)
			assert.Equal(t, want.retries, entry.RetryCount)
			require.NotNil(t, entry.NextRetryAt)
			backoff := time.Until(*entry.NextRetryAt)
			assert.Greater(t, backoff, want.min)
			assert.LessOrEqual(t, backoff, want.max)
		}
	})

	t.Run("becomes dead letter once budget is spent", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			Status:     OutboxStatusProcessing,
			RetryCount: 4,
			MaxRetries: 5,
		}

		entry.MarkFailed("final error")

		assert.True(t, entry.IsDead())
		assert.Equal(t, 5, entry.RetryCount)
		assert.Equal(t, "final error", entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})
}

func TestOutboxEntry_CanRetry(t *testing.T) {
	assert.True(t, (&OutboxEntry{Status: OutboxStatusFailed, RetryCount: 2, MaxRetries: 5}).CanRetry())
	assert.False(t, (&OutboxEntry{Status: OutboxStatusFailed, RetryCount: 5, MaxRetries: 5}).CanRetry())
	assert.False(t, (&OutboxEntry{Status: OutboxStatusPending, RetryCount: 0, MaxRetries: 5}).CanRetry())
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("returns dead letter to pending", func(t *testing.T) {
		entry := deadLetter()

		require.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Zero(t, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
		assert.WithinDuration(t, time.Now(), entry.UpdatedAt, time.Second)
	})

	t.Run("rejects live entries", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusProcessing, OutboxStatusSent, OutboxStatusFailed} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			err := entry.ResetForRetry()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "dead letter")
		}
	})
}

func TestOutboxEntry_IsDead(t *testing.T) {
	assert.True(t, deadLetter().IsDead())

	for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusProcessing, OutboxStatusSent, OutboxStatusFailed} {
		assert.False(t, (&OutboxEntry{Status: status}).IsDead())
	}
}
