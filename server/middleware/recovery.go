package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the stack
// and renders a 500 with an INTERNAL_ERROR body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("Panic recovered", logger.Fields(
					"error", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"client_ip", c.ClientIP(),
				))
				body := apperrors.New(apperrors.ErrCodeInternal, "Internal server error", http.StatusInternalServerError)
				c.AbortWithStatusJSON(http.StatusInternalServerError, body.ToResponse())
			}
		}()
		c.Next()
	}
}
