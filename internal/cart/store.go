package cart

import (
	"sync"

	"github.com/google/uuid"
)

const shardCount = 32

// Line is a single cart entry keyed by dish.
type Line struct {
	DishID   uuid.UUID
	Quantity int
}

// Cart holds a customer's pending selection. RestaurantID is uuid.Nil while
// the cart is empty; the first added dish binds it.
type Cart struct {
	RestaurantID uuid.UUID
	Lines        []Line
}

// Empty reports whether the cart holds no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c Cart) clone() Cart {
	out := Cart{RestaurantID: c.RestaurantID}
	if len(c.Lines) > 0 {
		out.Lines = make([]Line, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}

type entry struct {
	mu   sync.Mutex
	cart Cart
}

type shard struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

// Store is a sharded in-memory cart store. Each customer's cart is guarded
// by its own lock, so checkout can hold the cart stable across validation
// and commit without serializing unrelated customers.
type Store struct {
	shards [shardCount]*shard
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[uuid.UUID]*entry)}
	}
	return s
}

func (s *Store) entryFor(customerID uuid.UUID) *entry {
	sh := s.shards[shardIndex(customerID)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[customerID]
	if !ok {
		e = &entry{}
		sh.entries[customerID] = e
	}
	return e
}

func shardIndex(id uuid.UUID) int {
	return int(id[0]) % shardCount
}

// Snapshot returns a copy of the customer's cart.
func (s *Store) Snapshot(customerID uuid.UUID) Cart {
	e := s.entryFor(customerID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.clone()
}

// Update mutates the cart under its lock. If fn returns an error the cart
// is left unchanged.
func (s *Store) Update(customerID uuid.UUID, fn func(c *Cart) error) error {
	e := s.entryFor(customerID)
	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.cart.clone()
	if err := fn(&working); err != nil {
		return err
	}
	if working.Empty() {
		working.RestaurantID = uuid.Nil
	}
	e.cart = working
	return nil
}

// WithLock runs fn with the cart held stable. If fn succeeds the cart is
// cleared, so a committed checkout and the cart reset are a single step from
// the customer's point of view.
func (s *Store) WithLock(customerID uuid.UUID, fn func(c Cart) error) error {
	e := s.entryFor(customerID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(e.cart.clone()); err != nil {
		return err
	}
	e.cart = Cart{}
	return nil
}

// Clear drops the customer's cart.
func (s *Store) Clear(customerID uuid.UUID) {
	e := s.entryFor(customerID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = Cart{}
}
