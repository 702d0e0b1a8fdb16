package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lapis-malang/storefront/internal/config"
	"github.com/lapis-malang/storefront/internal/domain/session"
	"github.com/lapis-malang/storefront/internal/pkg/token"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// Session resolves the shopper's session from the signed cookie, starting a
// new one when the cookie is missing or invalid
func Session(cfg *config.Config, registry *session.Registry, tokens *token.SessionManager, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session

		if raw, err := c.Cookie(cfg.Session.CookieName); err == nil && raw != "" {
			if id, err := tokens.Validate(raw); err == nil {
				sess, _ = registry.GetOrCreate(id)
			} else {
				logger.WithError(err).Debug("Discarding invalid session cookie")
			}
		}

		if sess == nil {
			sess = registry.Create()
			signed, err := tokens.Generate(sess.ID)
			if err != nil {
				logger.WithError(err).Error("Failed to sign session cookie")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Session.CookieName, signed, int(cfg.Session.TokenExpiry.Seconds()), "/", "", cfg.Session.SecureCookie, true)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFromContext returns the session resolved by Session
func SessionFromContext(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}
