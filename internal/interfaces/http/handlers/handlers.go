// internal/interfaces/http/handlers/handlers.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/domain/session"
	"github.com/lapis-malang/storefront/internal/interfaces/http/middleware"
	"github.com/lapis-malang/storefront/internal/interfaces/http/views"
)

// render writes page with the values every layout needs
func render(c *gin.Context, status int, page views.Page, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = page.Title()
	}
	data["Page"] = string(page)

	cartCount := 0
	if sess, ok := middleware.SessionFromContext(c); ok {
		cartCount = sess.Cart.TotalItems()
	}
	data["CartCount"] = cartCount

	c.HTML(status, page.Template(), data)
}

// currentSession returns the request's session or aborts with 500
func currentSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Session not available",
		})
		return nil, false
	}
	return sess, true
}

// safeReturnPath only allows redirects to local paths
func safeReturnPath(path, fallback string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return fallback
	}
	return path
}
