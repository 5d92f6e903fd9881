// Package snapshot keeps the last successfully loaded value of a read path so
// that a failing upstream degrades to stale data instead of an error.
package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnavailable is returned when a load fails and nothing was ever loaded.
var ErrUnavailable = errors.New("upstream unavailable and no previous data")

// Ticket identifies one load. Only the newest ticket may commit.
type Ticket struct {
	gen uint64
}

// Result is what a reader gets back from Load.
type Result[T any] struct {
	Value     T
	Stale     bool
	FetchedAt time.Time
}

// Snapshot is safe for concurrent use.
type Snapshot[T any] struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
	value     T
	has       bool
	fetchedAt time.Time
	now       func() time.Time
}

func New[T any]() *Snapshot[T] {
	return &Snapshot[T]{now: time.Now}
}

// Begin hands out a ticket newer than every ticket issued before.
func (s *Snapshot[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Ticket{gen: s.issued}
}

// Commit stores v if ctx is still live and no newer load has committed.
// It reports whether v was applied.
func (s *Snapshot[T]) Commit(ctx context.Context, t Ticket, v T) bool {
	if ctx.Err() != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen <= s.committed {
		return false
	}
	s.committed = t.gen
	s.value = v
	s.has = true
	s.fetchedAt = s.now()
	return true
}

// Last returns the committed value, if any.
func (s *Snapshot[T]) Last() (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result[T]{Value: s.value, Stale: true, FetchedAt: s.fetchedAt}, s.has
}

// Load runs fetch and commits its result. On failure it falls back to the last
// committed value marked stale; with nothing to fall back to the fetch error is
// joined with ErrUnavailable. A load whose ctx is cancelled is discarded and
// returns ctx.Err().
func (s *Snapshot[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (Result[T], error) {
	ticket := s.Begin()
	v, err := fetch(ctx)
	if ctx.Err() != nil {
		var zero Result[T]
		return zero, ctx.Err()
	}
	if err != nil {
		if last, ok := s.Last(); ok {
			return last, nil
		}
		var zero Result[T]
		return zero, errors.Join(ErrUnavailable, err)
	}
	s.Commit(ctx, ticket, v)
	return Result[T]{Value: v, FetchedAt: s.now()}, nil
}
