package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/pkg/jwt"
	"github.com/AfopeM/nawalingo/pkg/response"
)

// context keys set by JWTAuth
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// TokenVerifier validates an identity-provider bearer token
type TokenVerifier interface {
	Authenticate(token string) (*jwt.Identity, error)
}

// PermissionChecker answers permission questions for RequirePermission
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}

// JWTAuth bearer-token authentication.
// Reads Authorization: Bearer <token> and injects the user id and email.
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, 10002, "Invalid authorization header")
			c.Abort()
			return
		}

		identity, err := verifier.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, 10002, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(EmailKey, identity.Email)

		c.Next()
	}
}

// RequirePermission admits callers holding permission (an APPROVED ADMIN
// holds every permission). Must run after JWTAuth.
func RequirePermission(checker PermissionChecker, permission string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			response.Unauthorized(c, 10002, "Not authenticated")
			c.Abort()
			return
		}

		ok, err := checker.HasPermission(c.Request.Context(), userID, permission)
		if err != nil {
			logger.Error("permission check failed",
				zap.String("user_id", userID), zap.String("permission", permission), zap.Error(err))
			response.InternalError(c)
			c.Abort()
			return
		}
		if !ok {
			response.Forbidden(c, 10003, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
