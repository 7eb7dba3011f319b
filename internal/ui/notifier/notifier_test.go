package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s *Subscription) Event {
	t.Helper()
	select {
	case <-s.C():
		return s.Events()
	case <-time.After(100 * time.Millisecond):
		t.Fatal("subscription did not receive broadcast")
		return 0
	}
}

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	s := n.Subscribe()
	require.NotNil(t, s)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(s)
	assert.Equal(t, 0, n.Len())

	n.Broadcast(ShortcutsChanged)
	assert.Equal(t, Event(0), s.Events(), "unsubscribed listener gets nothing")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	s1 := n.Subscribe()
	s2 := n.Subscribe()
	defer n.Unsubscribe(s1)
	defer n.Unsubscribe(s2)

	n.Broadcast(ShortcutsChanged)

	assert.Equal(t, ShortcutsChanged, receive(t, s1))
	assert.Equal(t, ShortcutsChanged, receive(t, s2))
}

func TestNotifier_Broadcast_MergesPending(t *testing.T) {
	n := New()
	s := n.Subscribe()
	defer n.Unsubscribe(s)

	done := make(chan struct{})
	go func() {
		n.Broadcast(ShortcutsChanged)
		n.Broadcast(SchemaChanged)
		n.Broadcast(ShortcutsChanged)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on a slow listener")
	}

	ev := receive(t, s)
	assert.True(t, ev.Has(ShortcutsChanged))
	assert.True(t, ev.Has(SchemaChanged))
	assert.Equal(t, Event(0), s.Events(), "events are cleared once read")
}

func TestNotifier_Broadcast_Empty(t *testing.T) {
	n := New()
	s := n.Subscribe()
	defer n.Unsubscribe(s)

	n.Broadcast(0)

	select {
	case <-s.C():
		t.Fatal("empty event should not be delivered")
	default:
	}
}

func TestEvent_Has(t *testing.T) {
	both := ShortcutsChanged | SchemaChanged
	assert.True(t, both.Has(SchemaChanged))
	assert.True(t, both.Has(both))
	assert.False(t, ShortcutsChanged.Has(SchemaChanged))
	assert.False(t, both.Has(0))
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := n.Subscribe()
			n.Broadcast(SchemaChanged)
			n.Unsubscribe(s)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Len())
}
