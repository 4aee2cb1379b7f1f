// Package store holds each view's last-known server data together with its
// loading flag and error value, and owns the fetch protocol that keeps them
// consistent: loading on and error cleared before the call, data replaced
// wholesale on success, stale data kept on failure, loading off on both paths.
package store

import (
	"context"
	"errors"
	"sync"

	"hrms.console/internal/hrms"
)

// Snapshot is a read-only copy of a store's state, safe to hand to renderers.
type Snapshot[T any] struct {
	Data    T
	Loading bool
	Err     *hrms.APIError
}

// Store is the state container behind one view. Overlapping fetches are not
// cancelled; instead every fetch takes a sequence token and a completion
// older than the latest issued fetch is discarded, so the newest request
// always wins regardless of arrival order.
type Store[T any] struct {
	mu      sync.Mutex
	data    T
	loading bool
	err     *hrms.APIError
	seq     uint64
}

// begin starts a fetch cycle and returns its token.
func (s *Store[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = nil
	s.seq++
	return s.seq
}

// complete applies a fetch result. Results from superseded fetches are
// dropped on the floor.
func (s *Store[T]) complete(token uint64, data T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return
	}
	s.loading = false
	if err != nil {
		// Keep the previous data visible; only the error changes.
		s.err = asAPIError(err)
		return
	}
	s.data = data
	s.err = nil
}

// Fetch runs one full cycle of the protocol using load to produce the data.
func (s *Store[T]) Fetch(ctx context.Context, load func(context.Context) (T, error)) error {
	token := s.begin()
	data, err := load(ctx)
	s.complete(token, data, err)
	return err
}

// Snapshot returns the current state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{Data: s.data, Loading: s.loading, Err: s.err}
}

// mutate runs fn against the current data under the lock. Used by the
// mutation coordinator to reconcile a store after a successful write.
func (s *Store[T]) mutate(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = fn(s.data)
}

func asAPIError(err error) *hrms.APIError {
	var apiErr *hrms.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &hrms.APIError{Message: err.Error()}
}
