package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is refused before the handler runs; chunked bodies fail on read,
// which HandleValidationError reports as 413. maxBytes <= 0 disables the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
