package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"poultry-market-backend/internal/shared"
	"poultry-market-backend/internal/shared/response"
	"poultry-market-backend/pkg/jwt"
)

// AuthMiddleware requires a valid bearer token and stores the caller in the context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := authenticate(c, manager)
		if !ok {
			response.Unauthorized(c, "missing or invalid access token")
			c.Abort()
			return
		}

		c.Set(shared.ContextUserID, userID)
		c.Set(shared.ContextRole, role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		userID, role, ok := authenticate(c, manager)
		if !ok {
			response.Unauthorized(c, "invalid access token")
			c.Abort()
			return
		}

		c.Set(shared.ContextUserID, userID)
		c.Set(shared.ContextRole, role)
		c.Next()
	}
}

func authenticate(c *gin.Context, manager *jwt.Manager) (uuid.UUID, string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, "", false
	}

	claims, err := manager.ValidateAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("token rejected")
		return uuid.Nil, "", false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", false
	}

	role := claims.Role
	if role == "" {
		role = jwt.RoleUser
	}
	return userID, role, true
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(shared.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// MustUserID aborts with 401 when no caller is present.
func MustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
			Success: false,
			Error:   &response.Error{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
	}
	return id, ok
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(shared.ContextRole) == jwt.RoleAdmin
}
