package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt reads an integer query parameter, falling back to def when the
// value is absent or malformed.
func QueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
