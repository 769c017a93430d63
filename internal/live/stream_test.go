package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestSubscribeReceivesLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStreamWith(1)
	ch := s.Subscribe(ctx)
	assert.Equal(t, 1, receive(t, ch))

	s.Publish(2)
	assert.Equal(t, 2, receive(t, ch))
}

func TestSubscribeEmptyStreamWaits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStream[string]()
	ch := s.Subscribe(ctx)

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %q before publish", v)
	default:
	}

	s.Publish("ready")
	assert.Equal(t, "ready", receive(t, ch))
}

func TestSlowSubscriberGetsNewest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStream[int]()
	ch := s.Subscribe(ctx)
	for i := 1; i <= 50; i++ {
		s.Publish(i)
	}
	assert.Equal(t, 50, receive(t, ch))

	v, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, 50, v)
}

func TestSubscriptionClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewStream[int]()
	ch := s.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}
}

func TestCloseStream(t *testing.T) {
	s := NewStream[int]()
	ch := s.Subscribe(context.Background())
	s.Close()

	_, ok := <-ch
	assert.False(t, ok)

	s.Publish(7)
	_, set := s.Latest()
	assert.False(t, set)

	late := s.Subscribe(context.Background())
	_, ok = <-late
	assert.False(t, ok)
}

func TestCloseReleasesBackgroundSubscribers(t *testing.T) {
	s := NewStreamWith(1)
	for range 3 {
		s.Subscribe(context.Background())
	}

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return: a subscription watcher is still running")
	}
}
