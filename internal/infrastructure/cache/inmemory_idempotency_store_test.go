package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	store := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("first sighting is new", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "customer.created:aaa", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("second sighting is a duplicate", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "customer.created:bbb", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "customer.created:bbb", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("expired entry can be reprocessed", func(t *testing.T) {
		const id = "credit.updated:ccc"

		isNew, err := store.MarkProcessed(ctx, id, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, id, 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew, "expired entry should be treated as new")
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("unknown event", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("recorded event", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "customer.deleted:ddd", time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, "customer.deleted:ddd")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired event", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "customer.updated:eee", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "customer.updated:eee")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	assert.Equal(t, 0, store.Size())

	store.MarkProcessed(ctx, "evt-1", time.Hour)
	store.MarkProcessed(ctx, "evt-2", time.Hour)
	assert.Equal(t, 2, store.Size())

	// remarking an existing id must not grow the store
	store.MarkProcessed(ctx, "evt-1", time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	store.MarkProcessed(ctx, "ephemeral-1", 10*time.Millisecond)
	store.MarkProcessed(ctx, "ephemeral-2", 10*time.Millisecond)
	store.MarkProcessed(ctx, "durable", time.Hour)
	require.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())

	processed, err := store.IsProcessed(ctx, "durable")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "ephemeral-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentMarking(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const workers = 100
	results := make(chan bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, err := store.MarkProcessed(ctx, "contended-event", time.Hour)
			results <- err == nil && isNew
		}()
	}
	wg.Wait()
	close(results)

	newCount := 0
	for isNew := range results {
		if isNew {
			newCount++
		}
	}
	assert.Equal(t, 1, newCount, "exactly one worker should win the mark")
}

func TestInMemoryIdempotencyStore_ConcurrentDistinctKeys(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			isNew, err := store.MarkProcessed(ctx, fmt.Sprintf("evt-%d", n), time.Hour)
			assert.NoError(t, err)
			assert.True(t, isNew)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, store.Size())
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close(), "double close must be safe")
}
