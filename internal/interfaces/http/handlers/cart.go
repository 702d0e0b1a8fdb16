// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/domain/cart"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/interfaces/http/views"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// AddItemRequest adds a catalog item to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `form:"product_id" json:"product_id" binding:"required"`
	Quantity  int    `form:"quantity" json:"quantity" binding:"omitempty,min=1,max=999"`
	ReturnTo  string `form:"return_to" json:"-"`
}

// UpdateQuantityRequest changes a line's quantity by Delta
type UpdateQuantityRequest struct {
	Delta *int `form:"delta" json:"delta" binding:"required,min=-999,max=999"`
}

// CartResponse is the JSON view of a cart
type CartResponse struct {
	Items  []cart.Line `json:"items"`
	Totals cart.Totals `json:"totals"`
}

// CartHandler handles cart pages and endpoints
type CartHandler struct {
	catalog *catalog.Service
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalogService *catalog.Service, m *metrics.Metrics, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		catalog: catalogService,
		metrics: m,
		logger:  logger,
	}
}

// Page handles GET /cart
func (h *CartHandler) Page(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if sess.Cart.IsEmpty() {
		render(c, http.StatusOK, views.PageCart, gin.H{"Empty": true})
		return
	}

	lines, totals := sess.Cart.Snapshot()
	render(c, http.StatusOK, views.PageCart, gin.H{
		"Empty":    len(lines) == 0,
		"Lines":    lines,
		"Subtotal": totals.Subtotal,
	})
}

// AddItemForm handles POST /cart/items from the product pages
func (h *CartHandler) AddItemForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}

	item, err := h.catalog.Get(req.ProductID)
	if err != nil {
		render(c, http.StatusNotFound, views.PageNotFound, nil)
		return
	}

	h.add(sess.Cart, item, req.Quantity)
	c.Redirect(http.StatusSeeOther, safeReturnPath(req.ReturnTo, "/products"))
}

// UpdateQuantityForm handles POST /cart/items/:id/quantity
func (h *CartHandler) UpdateQuantityForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBind(&req); err == nil {
		h.updateQuantity(sess.Cart, c.Param("id"), *req.Delta)
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveItemForm handles POST /cart/items/:id/remove
func (h *CartHandler) RemoveItemForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	h.remove(sess.Cart, c.Param("id"))
	c.Redirect(http.StatusSeeOther, "/cart")
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse(sess.Cart),
	})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.catalog.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up product"})
		return
	}

	h.add(sess.Cart, item, req.Quantity)
	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse(sess.Cart),
	})
}

// UpdateItem handles PATCH /api/v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	id := c.Param("id")
	if _, exists := sess.Cart.Line(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	h.updateQuantity(sess.Cart, id, *req.Delta)
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse(sess.Cart),
	})
}

// RemoveItem handles DELETE /api/v1/cart/items/:id. Removing an absent item
// succeeds and leaves the cart unchanged.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	h.remove(sess.Cart, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse(sess.Cart),
	})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	sess.Cart.Clear()
	h.metrics.CartOperations.WithLabelValues("clear").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartResponse(sess.Cart),
	})
}

// GetCartCount handles GET /api/v1/cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"count": sess.Cart.TotalItems(),
		},
	})
}

func (h *CartHandler) add(store *cart.Store, item catalog.Item, quantity int) {
	if quantity == 0 {
		quantity = cart.DefaultQuantity
		store.AddOne(item)
	} else {
		store.Add(item, quantity)
	}
	h.metrics.CartOperations.WithLabelValues("add").Inc()
	h.logger.WithFields(logrus.Fields{
		"product_id": item.ID,
		"quantity":   quantity,
	}).Debug("Item added to cart")
}

func (h *CartHandler) updateQuantity(store *cart.Store, id string, delta int) {
	store.UpdateQuantity(id, delta)
	h.metrics.CartOperations.WithLabelValues("update_quantity").Inc()
}

func (h *CartHandler) remove(store *cart.Store, id string) {
	store.Remove(id)
	h.metrics.CartOperations.WithLabelValues("remove").Inc()
}

func cartResponse(store *cart.Store) CartResponse {
	lines, totals := store.Snapshot()
	return CartResponse{
		Items:  lines,
		Totals: totals,
	}
}
