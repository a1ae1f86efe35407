package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/staffdesk/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics, logs the error
// with stack trace using slog, and responds with a 500 envelope:
//
//	{"success": false, "message": "internal server error", "data": null}
//
// This middleware is intended to replace gin.Recovery() so panics go through
// structured logging.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(stack)),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Fail[any]("internal server error", nil))
			}
		}()
		c.Next()
	}
}
