package store

import (
	"log"
	"sync"
	"time"
)

// Reaction is the last-known reaction state for one item.
type Reaction struct {
	ItemID       string
	UserReaction string // "" means no reaction
	Counts       map[string]int
	UpdatedAt    time.Time // freshness only; the server stays authoritative
}

// Clone returns a deep copy so callers can never mutate cached state.
func (r Reaction) Clone() Reaction {
	dup := r
	if r.Counts != nil {
		dup.Counts = make(map[string]int, len(r.Counts))
		for kind, n := range r.Counts {
			dup.Counts[kind] = n
		}
	}
	return dup
}

type subscription struct {
	id int
	fn func(Reaction)
}

// Store holds the per-item reaction cache and the subscriber registry.
// All mutation goes through the sync engine and the persistence adapter;
// UI code only reads and subscribes.
type Store struct {
	mu     sync.Mutex
	items  map[string]Reaction
	subs   map[string][]subscription
	nextID int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		items: make(map[string]Reaction),
		subs:  make(map[string][]subscription),
	}
}

// Get returns a copy of the cached state for an item, if any.
func (s *Store) Get(itemID string) (Reaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[itemID]
	if !ok {
		return Reaction{}, false
	}
	return r.Clone(), true
}

// Put replaces the cached state for an item wholesale.
func (s *Store) Put(r Reaction) {
	s.mu.Lock()
	s.items[r.ItemID] = r.Clone()
	s.mu.Unlock()
}

// MergeUserReaction updates only the user's own reaction for an item,
// preserving any counts already cached. UpdatedAt is left untouched so the
// next read still revalidates counts with the server.
func (s *Store) MergeUserReaction(itemID, kind string) {
	s.mu.Lock()
	r, ok := s.items[itemID]
	if !ok {
		r = Reaction{ItemID: itemID}
	}
	r.UserReaction = kind
	s.items[itemID] = r
	s.mu.Unlock()
}

// Subscribe registers a callback for an item's state changes and returns the
// matching unsubscribe function. If the item is already cached, the callback
// is invoked synchronously with the current state before Subscribe returns,
// so late subscribers never miss the latest value.
func (s *Store) Subscribe(itemID string, fn func(Reaction)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[itemID] = append(s.subs[itemID], subscription{id: id, fn: fn})
	current, cached := s.items[itemID]
	if cached {
		current = current.Clone()
	}
	s.mu.Unlock()

	if cached {
		invoke(itemID, fn, current)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[itemID]
		for i, sub := range subs {
			if sub.id == id {
				s.subs[itemID] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(s.subs[itemID]) == 0 {
			delete(s.subs, itemID)
		}
	}
}

// Notify delivers the current state for an item to every registered
// subscriber, synchronously and in registration order. A panicking subscriber
// is logged and skipped; it never blocks the others.
func (s *Store) Notify(itemID string) {
	s.mu.Lock()
	r := s.items[itemID]
	if r.ItemID == "" {
		r.ItemID = itemID
	}
	subs := make([]subscription, len(s.subs[itemID]))
	copy(subs, s.subs[itemID])
	s.mu.Unlock()

	for _, sub := range subs {
		invoke(itemID, sub.fn, r.Clone())
	}
}

// Clear drops every cached entry and returns the ids that were present so the
// caller can notify them. Subscriptions survive; they belong to live widgets
// that now see the empty state.
func (s *Store) Clear() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	s.items = make(map[string]Reaction)
	s.mu.Unlock()
	return ids
}

// UserOwned snapshots the items where the user holds a reaction, as the
// itemID -> kind mapping the persistence adapter stores durably.
func (s *Store) UserOwned() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make(map[string]string)
	for id, r := range s.items {
		if r.UserReaction != "" {
			owned[id] = r.UserReaction
		}
	}
	return owned
}

func invoke(itemID string, fn func(Reaction), r Reaction) {
	defer func() {
		if v := recover(); v != nil {
			log.Printf("reaction subscriber for %s panicked: %v", itemID, v)
		}
	}()
	fn(r)
}
