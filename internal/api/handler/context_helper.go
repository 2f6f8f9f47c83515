package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AfopeM/nawalingo/internal/api/middleware"
	"github.com/AfopeM/nawalingo/pkg/response"
)

// MustGetUserID reads the user id set by JWTAuth.
// Writes a 401 and returns false when it is missing; callers return at once.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		response.Unauthorized(c, codeUnauthenticated, "Not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, codeUnauthenticated, "Not authenticated")
		return "", false
	}
	return s, true
}

// GetEmail the token's email claim; may be empty
func GetEmail(c *gin.Context) string {
	return c.GetString(middleware.EmailKey)
}
