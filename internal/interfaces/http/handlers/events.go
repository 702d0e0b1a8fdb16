package handlers

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/domain/cart"
	"github.com/sirupsen/logrus"
)

// EventsHandler streams cart totals to the browser
type EventsHandler struct {
	logger logrus.FieldLogger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(logger logrus.FieldLogger) *EventsHandler {
	return &EventsHandler{logger: logger}
}

// CartEvents handles GET /api/v1/cart/events. The current totals are sent
// first, then one "totals" event per cart change. Slow readers only see the
// latest totals.
func (h *EventsHandler) CartEvents(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	updates := make(chan cart.Totals, 1)
	publish := func(t cart.Totals) {
		select {
		case updates <- t:
		default:
			// drop the stale value and keep the newest
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- t:
			default:
			}
		}
	}

	unsubscribe := sess.Cart.Subscribe(publish)
	defer unsubscribe()

	closed := make(chan struct{})
	var once sync.Once
	removeHook, ok := sess.OnClose(func() { once.Do(func() { close(closed) }) })
	if !ok {
		return
	}
	defer removeHook()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	publish(sess.Cart.Totals())

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-closed:
			return false
		case totals := <-updates:
			c.SSEvent("totals", totals)
			return true
		}
	})

	h.logger.WithField("session_id", sess.ID).Debug("Cart event stream closed")
}
