package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/meetingnotes/logger"
)

// HeaderRequestID is the header carrying the request ID in both directions.
const HeaderRequestID = "X-Request-Id"

// RequestID reuses an incoming X-Request-Id or generates one, echoes it on
// the response and stores it in the request context for log enrichment.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(logger.FieldRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
