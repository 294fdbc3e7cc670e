// Package middleware holds the gin middleware chain: panic recovery,
// tracing, request logging, JWT auth, permission checks and the error
// renderer.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	appctx "domus/internal/core/context"
	"domus/pkg/logger"
)

// Recovery converts panics into a generic 500. The stack trace goes to
// the log only; the client sees just the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				logger.Error(ctx, "panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(
					apperror.NewInternal(fmt.Errorf("panic: %v", r)).
						WithDetail("request_id", appctx.GetRequestID(ctx)),
				)
				c.Abort()
			}
		}()
		c.Next()
	}
}
