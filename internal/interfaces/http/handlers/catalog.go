package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/domain/catalog"
)

// CatalogHandler serves the catalog as JSON
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// ListItems handles GET /api/v1/catalog
func (h *CatalogHandler) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog retrieved successfully",
		"data": gin.H{
			"items": h.catalog.Items(),
			"total": h.catalog.Count(),
		},
	})
}

// GetItem handles GET /api/v1/catalog/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    item,
	})
}
