package middleware

import (
	"github.com/gin-gonic/gin"

	"poultry-market-backend/internal/shared/utils"
)

const ClientIPKey = "client_ip"

// ClientIPMiddleware resolves the client address once for the request logger.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIPKey, utils.ExtractClientIP(c))
		c.Next()
	}
}
