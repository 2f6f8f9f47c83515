package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AfopeM/nawalingo/pkg/response"
)

// BodyLimit request body size limit (e.g. 1<<20 = 1MB).
// A declared Content-Length over the limit is rejected up front; a body that
// overruns while streaming fails its read with *http.MaxBytesError.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
