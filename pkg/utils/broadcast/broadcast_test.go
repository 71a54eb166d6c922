package broadcast

import (
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
		t.Fatal("timeout waiting for message")
	}
	var zero T
	return zero
}

func TestBroadcast(t *testing.T) {
	source := make(chan int)
	b := NewServer("test", source)
	defer b.Close()

	s1 := b.Subscribe()
	s2 := b.Subscribe()
	source <- 1
	assert.Equal(t, 1, receive(t, s1))
	assert.Equal(t, 1, receive(t, s2))

	b.CancelSubscription(s2)
	_, ok := <-s2
	assert.False(t, ok, "cancelled subscription is closed")

	source <- 2
	assert.Equal(t, 2, receive(t, s1))
}

func TestSlowSubscriberSkipsMessages(t *testing.T) {
	source := make(chan int)
	b := NewServer("slow", source, WithSendTimeout[int](10*time.Millisecond))
	defer b.Close()

	slow := b.Subscribe()
	fast := b.Subscribe()
	// slow has a buffer of one, the second message is skipped for slow
	source <- 1
	assert.Equal(t, 1, receive(t, fast))
	source <- 2
	assert.Equal(t, 2, receive(t, fast))

	assert.Equal(t, 1, receive(t, slow))
	select {
	case v := <-slow:
		t.Errorf("unexpected message %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClose(t *testing.T) {
	source := make(chan int)
	b := NewServer("close", source)
	s := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-s:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
	_, ok := <-b.Subscribe()
	assert.False(t, ok)
	b.CancelSubscription(s)
}
