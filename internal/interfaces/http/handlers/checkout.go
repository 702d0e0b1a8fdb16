// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lapis-malang/storefront/internal/domain/checkout"
	"github.com/lapis-malang/storefront/internal/interfaces/http/views"
)

var fieldLabels = map[string]string{
	"FullName": "Full Name",
	"Phone":    "Phone Number",
	"Email":    "Email Address",
	"Address":  "Full Address",
}

// CheckoutHandler handles the checkout form and its confirmation
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutService}
}

// Page handles GET /checkout. A session with a pending clear sees the
// confirmation instead of the form.
func (h *CheckoutHandler) Page(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if clearAt, pending := h.checkout.Pending(sess.ID); pending {
		h.renderConfirmation(c, clearAt)
		return
	}

	render(c, http.StatusOK, views.PageCheckout, gin.H{
		"Subtotal": sess.Cart.Subtotal(),
	})
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var form checkout.ShippingForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, views.PageCheckout, gin.H{
			"Subtotal": sess.Cart.Subtotal(),
			"Errors":   formErrors(err),
		})
		return
	}

	h.checkout.Submit(sess, form)
	c.Redirect(http.StatusSeeOther, "/checkout")
}

// SubmitJSON handles POST /api/v1/checkout
func (h *CheckoutHandler) SubmitJSON(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": formErrors(err),
		})
		return
	}

	confirmation := h.checkout.Submit(sess, form)
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Order placed successfully",
		"data":    confirmation,
	})
}

func (h *CheckoutHandler) renderConfirmation(c *gin.Context, clearAt time.Time) {
	seconds := int(math.Ceil(time.Until(clearAt).Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	render(c, http.StatusOK, views.PageConfirmation, gin.H{
		"RefreshSeconds": seconds,
		"RefreshURL":     checkout.RedirectTarget,
	})
}

// formErrors turns binding errors into messages a shopper can act on
func formErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Please check the form and try again."}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required.", label))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address.", label))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid.", label))
		}
	}
	return messages
}
