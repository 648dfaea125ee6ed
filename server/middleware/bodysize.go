package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetingnotes/util"
)

const defaultMaxBodySize = 2 << 30 // 2GB

// BodySizeLimit restricts the request body to the given size string
// (e.g. "500MB", "2GB"). Reads past the limit fail inside the handler.
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		c.Next()
	}
}
