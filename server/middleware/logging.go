package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetingnotes/logger"
)

var quietPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

// RequestLogger logs every request with method, path, status and duration.
// Health and info probes are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, latency.Milliseconds(),
			"client", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}
		logByStatus(log.WithContext(c.Request.Context()), fields, status)
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}
