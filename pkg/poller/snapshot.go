package poller

import (
	"context"
	"sync"
	"time"
)

// Snapshot keeps the latest value produced by a polled function
type Snapshot[T any] struct {
	mu        sync.RWMutex
	value     T
	err       error
	updatedAt time.Time
	fetch     func(ctx context.Context) (T, error)
}

// NewSnapshot creates a snapshot filled by fetch
func NewSnapshot[T any](fetch func(ctx context.Context) (T, error)) *Snapshot[T] {
	return &Snapshot[T]{fetch: fetch}
}

// Refresh fetches a new value. A failed fetch keeps the previous value and
// records the error.
func (s *Snapshot[T]) Refresh(ctx context.Context) error {
	value, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err == nil {
		s.value = value
		s.updatedAt = time.Now()
	}
	return err
}

// Get returns the latest value, when it was fetched and the last error
func (s *Snapshot[T]) Get() (T, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.updatedAt, s.err
}
