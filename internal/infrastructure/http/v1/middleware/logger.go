package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"dormdesk/pkg/logger"
)

// Logger stores log in the request context and writes one access entry per
// request: info below 400, warn for client errors, error for server errors.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		status := c.Writer.Status()
		entry := log.WithContext(c.Request.Context()).With(
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(started).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			entry = entry.With("error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			entry.Errorw("http request")
		case status >= 400:
			entry.Warnw("http request")
		default:
			entry.Infow("http request")
		}
	}
}
