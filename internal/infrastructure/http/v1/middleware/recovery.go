// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"dormdesk/internal/core/apperror"
	appctx "dormdesk/internal/core/context"
	"dormdesk/pkg/logger"
)

// Recovery turns a panic into an INTERNAL_ERROR for ErrorHandler to render.
// The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()
			requestID := appctx.GetRequestID(ctx)

			logger.FromContext(ctx).WithComponent("http").Errorw("panic recovered",
				"route", c.FullPath(),
				"method", c.Request.Method,
				"panic", rec,
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic in %s %s: %v", c.Request.Method, c.FullPath(), rec))
			if requestID != "" {
				appErr.WithDetail("request_id", requestID)
			}
			_ = c.Error(appErr)
			c.Abort()
		}()
		c.Next()
	}
}
