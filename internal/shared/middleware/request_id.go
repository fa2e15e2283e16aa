package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poultry-market-backend/internal/shared"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		c.Set(shared.ContextRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
