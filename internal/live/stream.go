// Package live provides a small observable value for pushing snapshots to
// subscribers (database change versions, view-model state, favorites).
package live

import (
	"context"
	"sync"
)

// Stream holds the latest value of T and fans it out to subscribers.
// Each subscriber sees the latest snapshot on subscribe and after every
// Publish. A slow subscriber may skip intermediate values, never the newest.
type Stream[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	closed bool
	subs   map[int]chan T
	nextID int

	// done is closed by Close so subscription watchers exit even when
	// their context never ends
	done     chan struct{}
	watchers sync.WaitGroup
}

// NewStream creates an empty stream
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]chan T), done: make(chan struct{})}
}

// NewStreamWith creates a stream seeded with an initial value
func NewStreamWith[T any](initial T) *Stream[T] {
	s := NewStream[T]()
	s.value = initial
	s.set = true
	return s
}

// Publish stores v as the latest value and delivers it to every subscriber
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	s.set = true
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Latest returns the most recent value and whether one was ever published
func (s *Stream[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Subscribe returns a channel that receives the latest value and every later one.
// The channel is closed when ctx ends or the stream is closed.
func (s *Stream[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if s.set {
		ch <- s.value
	}
	s.watchers.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.watchers.Done()
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}()

	return ch
}

// Close closes every subscription and waits for their watchers to exit.
// Later publishes are dropped.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	close(s.done)
	s.mu.Unlock()

	s.watchers.Wait()
}

// offer replaces any undelivered value in ch with v. Caller holds the lock.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
