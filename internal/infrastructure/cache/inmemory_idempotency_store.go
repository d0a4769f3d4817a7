package cache

import (
	"context"
	"sync"
	"time"

	"github.com/crmcore/backend/internal/domain/shared"
)

const cleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps processed event IDs in a map with per-entry
// expiry. Good for single-instance deployments and tests; multi-instance
// setups should use the Redis store so instances share dedup state.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]time.Time // event ID -> expiry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// NewInMemoryIdempotencyStore builds the store and starts its background
// sweeper. Call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkProcessed records the event ID with the given TTL. It returns true when
// the ID was not yet known (or had expired), false for a live duplicate.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.entries[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}

	s.entries[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether the event ID is known and unexpired.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.entries[eventID]
	return exists && time.Now().Before(expiresAt), nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, eventID)
		}
	}
}

// Size reports the number of tracked IDs, expired or not. Used by tests and
// monitoring.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
