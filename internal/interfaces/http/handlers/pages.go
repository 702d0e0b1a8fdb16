package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/domain/cart"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/interfaces/http/views"
)

const featuredCount = 3

// PageHandler renders the browsing pages
type PageHandler struct {
	catalog *catalog.Service
}

// NewPageHandler creates a new page handler
func NewPageHandler(catalogService *catalog.Service) *PageHandler {
	return &PageHandler{catalog: catalogService}
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, views.PageHome, gin.H{
		"Featured": h.catalog.Featured(featuredCount),
	})
}

// Products handles GET /products
func (h *PageHandler) Products(c *gin.Context) {
	render(c, http.StatusOK, views.PageProducts, gin.H{
		"Items": h.catalog.Items(),
		"Count": h.catalog.Count(),
	})
}

// Product handles GET /product/:id. The ?qty parameter drives the quantity
// selector and never touches the cart.
func (h *PageHandler) Product(c *gin.Context) {
	item, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			render(c, http.StatusNotFound, views.PageNotFound, nil)
			return
		}
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	qty := parseQuantity(c.Query("qty"))
	render(c, http.StatusOK, views.PageProduct, gin.H{
		"Title":    item.Name,
		"Item":     item,
		"Quantity": qty,
		"QtyDec":   max(1, qty-1),
		"QtyInc":   min(qty+1, cart.MaxQuantity),
	})
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	render(c, http.StatusOK, views.PageAbout, nil)
}

// NotFound handles unmatched routes
func (h *PageHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, views.PageNotFound, gin.H{"Title": "Not found"})
}

// parseQuantity reads a selector quantity, flooring at 1
func parseQuantity(raw string) int {
	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 1 {
		return 1
	}
	return min(qty, cart.MaxQuantity)
}
