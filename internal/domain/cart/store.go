// internal/domain/cart/store.go
package cart

import (
	"sync"

	"github.com/lapis-malang/storefront/internal/domain/catalog"
)

// Observer is called with fresh totals after every mutation
type Observer func(Totals)

// Store owns the cart lines of one session. All reads and writes go through
// its methods; aggregates are recomputed from the lines on every read.
type Store struct {
	mu    sync.Mutex
	lines []Line

	observerMu   sync.Mutex
	observers    map[uint64]Observer
	nextObserver uint64
}

// NewStore creates an empty cart
func NewStore() *Store {
	return &Store{
		lines:     []Line{},
		observers: make(map[uint64]Observer),
	}
}

// AddOne adds a single unit of item
func (s *Store) AddOne(item catalog.Item) {
	s.Add(item, DefaultQuantity)
}

// Add increases the quantity of the line for item.ID, appending a new line
// at the end when none exists. Quantities below 1 count as DefaultQuantity
// and a line never holds more than MaxQuantity.
func (s *Store) Add(item catalog.Item, quantity int) {
	if quantity < 1 {
		quantity = DefaultQuantity
	}

	s.mu.Lock()
	if i := s.indexOf(item.ID); i >= 0 {
		s.lines[i].Quantity = shiftQuantity(s.lines[i].Quantity, quantity)
	} else {
		s.lines = append(s.lines, Line{Item: item, Quantity: min(quantity, MaxQuantity)})
	}
	totals := computeTotals(s.lines)
	s.mu.Unlock()

	s.notify(totals)
}

// Remove deletes the line for id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	totals := computeTotals(s.lines)
	s.mu.Unlock()

	s.notify(totals)
}

// UpdateQuantity shifts the quantity of the line for id by delta, clamped
// to [1, MaxQuantity]. The line is never removed here. Unknown ids are
// ignored.
func (s *Store) UpdateQuantity(id string, delta int) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	newQuantity := shiftQuantity(s.lines[i].Quantity, delta)
	if newQuantity == s.lines[i].Quantity {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = newQuantity
	totals := computeTotals(s.lines)
	s.mu.Unlock()

	s.notify(totals)
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = []Line{}
	s.mu.Unlock()

	s.notify(Totals{})
}

// TotalItems returns the sum of quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.lines).TotalItems
}

// Subtotal returns the sum of price * quantity
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.lines).Subtotal
}

// Totals returns all aggregates computed from the same state
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.lines)
}

// Snapshot returns a copy of the lines and the totals computed from them
// under one lock
func (s *Store) Snapshot() ([]Line, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out, computeTotals(out)
}

// Lines returns a copy of the lines in insertion order
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns the line for id
func (s *Store) Line(id string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Subscribe registers fn to run after each mutation. The returned function
// removes it and is safe to call more than once.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.observerMu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.observerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.observerMu.Lock()
			delete(s.observers, id)
			s.observerMu.Unlock()
		})
	}
}

// indexOf must be called with s.mu held
func (s *Store) indexOf(id string) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// notify runs observers outside s.mu so they may read the store
func (s *Store) notify(totals Totals) {
	s.observerMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.observerMu.Unlock()

	for _, fn := range observers {
		fn(totals)
	}
}
