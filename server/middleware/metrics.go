package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetingnotes/observability"
)

// Metrics records request count, duration and the in-flight gauge. A nil
// metrics records nothing.
func Metrics(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		metrics.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequestEnd(ctx, route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
