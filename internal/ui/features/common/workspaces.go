package common

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/leapstack-labs/leapquery/internal/config"
)

// Workspaces holds server-side state of type T per browser session, keyed
// by the workspace id in the session cookie. A workspace idle for longer
// than the ttl is dropped, and so is the least recently used one once the
// store is full. It is safe for concurrent use.
type Workspaces[T any] struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *T]
}

// NewWorkspaces creates a store holding at most size workspaces. Zero
// values select the defaults.
func NewWorkspaces[T any](size int, ttl time.Duration) *Workspaces[T] {
	if size <= 0 {
		size = config.DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = config.DefaultSessionTTL
	}
	return &Workspaces[T]{lru: expirable.NewLRU[string, *T](size, nil, ttl)}
}

// Get returns the workspace for id, creating an empty one when needed.
// Every call renews the workspace's ttl.
func (w *Workspaces[T]) Get(id string) *T {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.lru.Get(id)
	if !ok {
		v = new(T)
	}
	w.lru.Add(id, v)
	return v
}

// Lookup returns the workspace for id if it exists.
func (w *Workspaces[T]) Lookup(id string) (*T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.lru.Get(id)
	if ok {
		w.lru.Add(id, v)
	}
	return v, ok
}

// Len returns the number of workspaces held.
func (w *Workspaces[T]) Len() int {
	return w.lru.Len()
}
