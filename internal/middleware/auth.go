// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionAuthMiddleware creates a Gin middleware that parses the opaque
// session token from the Authorization header and stores the (userID,
// appID) pair in the request context. The token is an identifier, not a
// verified credential; authorization happens downstream via the
// per-profile app check.
func SessionAuthMiddleware(issuer *token.Issuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(common.AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], common.AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		userID, appID, err := issuer.Parse(parts[1])
		if err != nil {
			logger.Warn("Session token parse failed", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}

		c.Set(common.UserIDKey, userID)
		c.Set(common.AppIDKey, appID)

		logger.Debug("Session established",
			zap.String("userID", userID),
			zap.String("appID", appID),
		)

		c.Next()
	}
}

// GetUserIDFromContext retrieves the session user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) string {
	val, exists := c.Get(common.UserIDKey)
	if !exists {
		return ""
	}
	userID, ok := val.(string)
	if !ok {
		return ""
	}
	return userID
}

// GetAppIDFromContext retrieves the session app ID from the Gin context.
func GetAppIDFromContext(c *gin.Context) string {
	val, exists := c.Get(common.AppIDKey)
	if !exists {
		return ""
	}
	appID, ok := val.(string)
	if !ok {
		return ""
	}
	return appID
}
