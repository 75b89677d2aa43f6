package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/helper"
	"taskmanager/internal/core/port"
	ct "taskmanager/pkg/context"
)

// Keys the principal is stored under in the gin context.
const (
	UserIDKey   = "x-user-id"
	UsernameKey = "x-username"
)

// JWTMiddleware rejects requests without a valid bearer token.
func JWTMiddleware(tokens port.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			return
		}

		token, ok := strings.CutPrefix(bearer, "Bearer ")

		if !ok || strings.TrimSpace(token) == "" {
			helper.SendUnauthorizedError(c, "Invalid authorization format")
			return
		}

		principal, err := tokens.Verify(c.Request.Context(), strings.TrimSpace(token))

		if err != nil {
			slog.InfoContext(c.Request.Context(), "JWTMiddleware#Verify", "error", err)
			helper.SendUnauthorizedError(c, "Invalid or expired access token")
			return
		}

		userID := principal.UserUUID.String()

		c.Set(UserIDKey, userID)
		c.Set(UsernameKey, principal.Username)

		if current, ok := ct.FromContext(c.Request.Context()); ok {
			current.Set(ct.UserIDKey, userID)
			current.Set(ct.UsernameKey, principal.Username)
		}

		c.Next()
	}
}
