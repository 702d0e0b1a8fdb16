// internal/domain/session/registry.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Registry holds the live sessions of this process
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
}

// NewRegistry creates an empty registry. Sessions idle for longer than
// idleTTL are removed by EvictIdle.
func NewRegistry(idleTTL time.Duration, logger logrus.FieldLogger, m *metrics.Metrics) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger,
		metrics:  m,
	}
}

// Create starts a new session with a random identifier
func (r *Registry) Create() *Session {
	sess, _ := r.GetOrCreate(uuid.NewString())
	return sess
}

// GetOrCreate returns the session for id, starting a fresh one when the id
// is unknown (first visit, eviction or restart)
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	now := r.now()

	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok {
		sess = newSession(id, now)
		r.sessions[id] = sess
		r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if ok {
		sess.Touch(now)
	} else {
		r.logger.WithField("session_id", id).Debug("Session started")
	}
	return sess, !ok
}

// Remove tears down the session for id
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if ok {
		sess.Close()
	}
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle tears down every session idle for longer than the TTL and
// returns how many were removed
func (r *Registry) EvictIdle() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var expired []*Session
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(r.sessions, id)
		}
	}
	r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}

	if len(expired) > 0 {
		r.logger.WithField("evicted", len(expired)).Info("Evicted idle sessions")
	}
	return len(expired)
}

// Run evicts idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// Close tears down every session
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		all = append(all, sess)
	}
	r.sessions = make(map[string]*Session)
	r.metrics.ActiveSessions.Set(0)
	r.mu.Unlock()

	for _, sess := range all {
		sess.Close()
	}
}
