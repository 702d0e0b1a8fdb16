package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/config"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// SecurityHeaders sets the storefront's response security headers. The
// content security policy comes from configuration; HSTS is only sent when
// session cookies are marked secure, since that implies HTTPS.
func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	csp := cfg.Security.ContentSecurityPolicy
	hsts := cfg.Session.SecureCookie
	server := cfg.App.Name

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if csp != "" {
			h.Set("Content-Security-Policy", csp)
		}
		if hsts {
			h.Set("Strict-Transport-Security", hstsValue)
		}
		if server != "" {
			h.Set("Server", server)
		}

		c.Next()
	}
}
