// internal/domain/session/session.go
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/lapis-malang/storefront/internal/domain/cart"
)

// Session is one browser's cart plus anything scoped to its lifetime
type Session struct {
	ID        string
	Cart      *cart.Store
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
	onClose  map[int]func()
	nextHook int
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Cart:      cart.NewStore(),
		CreatedAt: now,
		lastSeen:  now,
	}
}

// Touch records activity
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// OnClose registers fn to run when the session is torn down. The returned
// func deregisters it. ok is false, and nothing is registered, if the
// session is already closed.
func (s *Session) OnClose(fn func()) (remove func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}, false
	}
	if s.onClose == nil {
		s.onClose = make(map[int]func())
	}
	id := s.nextHook
	s.nextHook++
	s.onClose[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.onClose, id)
		s.mu.Unlock()
	}, true
}

// Closed reports whether the session has been torn down
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the session down and runs the OnClose hooks once
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hooks := make([]int, 0, len(s.onClose))
	for id := range s.onClose {
		hooks = append(hooks, id)
	}
	sort.Ints(hooks)
	fns := make([]func(), 0, len(hooks))
	for _, id := range hooks {
		fns = append(fns, s.onClose[id])
	}
	s.onClose = nil
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
