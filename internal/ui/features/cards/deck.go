package cards

import (
	"slices"
	"sync"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// Card is the server-side state of one query card.
type Card struct {
	ID  string
	SQL string
	// Last is the most recent successful result, used for downloads.
	Last *core.Result
}

// Deck holds one browser session's cards, newest first.
type Deck struct {
	mu    sync.RWMutex
	cards []*Card
}

// Prepend adds c in front of the other cards.
func (d *Deck) Prepend(c *Card) {
	d.mu.Lock()
	d.cards = append([]*Card{c}, d.cards...)
	d.mu.Unlock()
}

// Get returns a copy of the card with the given id.
func (d *Deck) Get(id string) (Card, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.cards {
		if c.ID == id {
			return *c, true
		}
	}
	return Card{}, false
}

// Remove deletes the card with the given id and reports whether it existed.
func (d *Deck) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.cards)
	d.cards = slices.DeleteFunc(d.cards, func(c *Card) bool { return c.ID == id })
	return len(d.cards) != n
}

// Record stores the statement and, on success, the result of a run. Cards
// unknown to the deck, e.g. after a server restart, are appended.
func (d *Deck) Record(id, sql string, res *core.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.cards {
		if c.ID == id {
			c.SQL = sql
			if res != nil {
				c.Last = res
			}
			return
		}
	}
	d.cards = append(d.cards, &Card{ID: id, SQL: sql, Last: res})
}

// List returns copies of the cards, newest first.
func (d *Deck) List() []Card {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Card, len(d.cards))
	for i, c := range d.cards {
		out[i] = *c
	}
	return out
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cards)
}
