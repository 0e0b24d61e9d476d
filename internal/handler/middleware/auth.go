package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"roombook/internal/domain/user"
	"roombook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates bearer tokens issued by the external identity
// collaborator and exposes the actor identity to handlers. No session state
// lives in this service.
type AuthMiddleware struct {
	tokens *jwt.Service
}

const ctxActorKey = "actor"

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		actor, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorKey, actor)
		c.Next()
	}
}

// RequireAdmin must be used after RequireAuth().
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !actor.Role.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetActor(c *gin.Context) (user.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return user.Actor{}, false
	}

	actor, ok := v.(user.Actor)
	return actor, ok
}
