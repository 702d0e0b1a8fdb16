// internal/domain/checkout/service.go
package checkout

import (
	"sync"
	"time"

	"github.com/lapis-malang/storefront/internal/domain/session"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// RedirectTarget is where the confirmation page sends the shopper
const RedirectTarget = "/"

// ShippingForm is the checkout form. Values are checked for presence and
// basic format, then dropped; nothing in it is stored.
type ShippingForm struct {
	FullName string `form:"full_name" json:"full_name" binding:"required"`
	Phone    string `form:"phone" json:"phone" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Address  string `form:"address" json:"address" binding:"required"`
}

// Confirmation describes the state a submitted checkout moves into
type Confirmation struct {
	Subtotal   int64         `json:"subtotal"`
	ClearAt    time.Time     `json:"clear_at"`
	Delay      time.Duration `json:"-"`
	RedirectTo string        `json:"redirect_to"`
}

// Service switches sessions into the confirmation state and clears their
// cart after a fixed delay
type Service struct {
	delay   time.Duration
	logger  logrus.FieldLogger
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending map[string]*pendingClear
}

type pendingClear struct {
	timer      *time.Timer
	clearAt    time.Time
	removeHook func()
}

// NewService creates a checkout service
func NewService(delay time.Duration, logger logrus.FieldLogger, m *metrics.Metrics) *Service {
	return &Service{
		delay:   delay,
		logger:  logger,
		metrics: m,
		pending: make(map[string]*pendingClear),
	}
}

// Submit accepts a validated form for sess. The cart is cleared once the
// delay elapses unless the session is torn down first. Submitting again
// while a clear is pending restarts the delay.
func (s *Service) Submit(sess *session.Session, _ ShippingForm) Confirmation {
	subtotal := sess.Cart.Subtotal()
	clearAt := time.Now().Add(s.delay)

	s.mu.Lock()
	previous, hadPending := s.pending[sess.ID]
	p := &pendingClear{clearAt: clearAt}
	if hadPending {
		previous.timer.Stop()
		p.removeHook = previous.removeHook
	}
	p.timer = time.AfterFunc(s.delay, func() { s.complete(sess, p) })
	s.pending[sess.ID] = p
	s.mu.Unlock()

	if !hadPending {
		s.watchSession(sess)
	}

	s.metrics.CheckoutsSubmitted.Inc()
	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"subtotal":   subtotal,
		"delay":      s.delay,
	}).Info("Checkout submitted")

	return Confirmation{
		Subtotal:   subtotal,
		ClearAt:    clearAt,
		Delay:      s.delay,
		RedirectTo: RedirectTarget,
	}
}

// Pending reports whether sess is in the confirmation state and when its
// cart will be cleared
func (s *Service) Pending(sessionID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[sessionID]
	if !ok {
		return time.Time{}, false
	}
	return p.clearAt, true
}

// Cancel drops a pending clear without touching the cart
func (s *Service) Cancel(sessionID string) bool {
	s.mu.Lock()
	p, ok := s.pending[sessionID]
	if ok {
		delete(s.pending, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	p.timer.Stop()
	if p.removeHook != nil {
		p.removeHook()
	}
	s.metrics.CheckoutsCancelled.Inc()
	s.logger.WithField("session_id", sessionID).Debug("Pending checkout cancelled")
	return true
}

// Stop cancels every pending clear
func (s *Service) Stop() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Cancel(id)
	}
}

// watchSession cancels the pending clear when sess is torn down
func (s *Service) watchSession(sess *session.Session) {
	remove, ok := sess.OnClose(func() { s.Cancel(sess.ID) })
	if !ok {
		s.Cancel(sess.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, pending := s.pending[sess.ID]; pending && p.removeHook == nil {
		p.removeHook = remove
		return
	}
	// already completed or cancelled
	remove()
}

func (s *Service) complete(sess *session.Session, p *pendingClear) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// replaced by a newer submit or cancelled
	if s.pending[sess.ID] != p {
		return
	}
	delete(s.pending, sess.ID)
	if p.removeHook != nil {
		p.removeHook()
	}

	if sess.Closed() {
		return
	}

	sess.Cart.Clear()
	s.metrics.CheckoutsCompleted.Inc()
	s.logger.WithField("session_id", sess.ID).Info("Checkout completed, cart cleared")
}
