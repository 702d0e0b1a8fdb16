package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// operationalPaths are polled by load balancers and scrapers, so successful
// hits are only logged at debug
var operationalPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Logger logs one structured entry per request. Entries carry the request
// id and, once the session middleware has run, the shopper's session id.
func Logger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id":    c.GetString(RequestIDKey),
			"method":        c.Request.Method,
			"path":          path,
			"route":         c.FullPath(),
			"status_code":   status,
			"latency":       time.Since(start),
			"client_ip":     c.ClientIP(),
			"response_size": c.Writer.Size(),
		}
		if sess, ok := SessionFromContext(c); ok {
			fields["session_id"] = sess.ID
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields["error"] = errs.String()
		}
		entry := logger.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		case operationalPaths[path]:
			entry.Debug("request served")
		default:
			entry.Info("request served")
		}
	}
}
