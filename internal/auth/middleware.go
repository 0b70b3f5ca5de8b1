package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plunge/internal/api"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// AuthMiddleware authenticates requests with a Bearer access token and puts
// the caller's identity on the gin context. Refresh and email-verification
// tokens are rejected even though they share the signing secret.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Bearer token required")
			return
		}

		claims, err := ValidateToken(token, secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			abortUnauthorized(c, "Invalid or malformed token")
			return
		}

		if claims.TokenType != "access" {
			abortUnauthorized(c, "Access token required")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole gates a route group on the role AuthMiddleware stored, so it
// must run after it.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			abortUnauthorized(c, "User role not found")
			return
		}

		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	value, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}

	id, ok := value.(int)
	return id, ok
}

func roleFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(ctxUserRole)
	if !ok {
		return "", false
	}

	role, ok := value.(string)
	return role, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: message})
}
