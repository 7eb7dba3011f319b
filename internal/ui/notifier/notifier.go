// Package notifier fans out change events from the config watcher and the
// query handlers to the open pages.
package notifier

import "sync"

// Event is a set of change kinds.
type Event uint8

const (
	// ShortcutsChanged means the shortcut catalog was reloaded.
	ShortcutsChanged Event = 1 << iota
	// SchemaChanged means cached table and column names were dropped.
	SchemaChanged
	// HistoryChanged means a query was executed and possibly recorded.
	HistoryChanged
)

// Has reports whether e includes every kind in k.
func (e Event) Has(k Event) bool {
	return k != 0 && e&k == k
}

// Subscription receives the events broadcast after Subscribe.
// Events that arrive before the listener drained the previous ones are
// merged, so a slow listener sees each kind at most once.
type Subscription struct {
	ch      chan struct{}
	mu      sync.Mutex
	pending Event
}

// C returns a channel that is ready whenever events are pending.
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Events returns and clears the pending events.
func (s *Subscription) Events() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.pending
	s.pending = 0
	return ev
}

func (s *Subscription) add(ev Event) {
	s.mu.Lock()
	s.pending |= ev
	s.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Notifier broadcasts events to all subscriptions.
type Notifier struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a listener. The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() *Subscription {
	s := &Subscription{ch: make(chan struct{}, 1)}
	n.mu.Lock()
	n.subs[s] = struct{}{}
	n.mu.Unlock()
	return s
}

// Unsubscribe removes s. Further broadcasts are not delivered to it.
func (n *Notifier) Unsubscribe(s *Subscription) {
	n.mu.Lock()
	delete(n.subs, s)
	n.mu.Unlock()
}

// Broadcast delivers ev to every subscription without blocking.
func (n *Notifier) Broadcast(ev Event) {
	if ev == 0 {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	for s := range n.subs {
		s.add(ev)
	}
}

// Len returns the number of subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
