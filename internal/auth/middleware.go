package auth

import (
	"errors"
	"net/http"
	"strings"

	"examprep/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Token is empty")
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Token expired")
				return
			}
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Invalid or malformed token")
			return
		}

		if claims.TokenType != tokenTypeAccess {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Access token required")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ctxUserRole)
		if !ok {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "User role not found")
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "Invalid role type")
			return
		}

		if roleStr != requiredRole {
			api.Error(c, http.StatusForbidden, api.CodeForbidden, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// SetUserID is used by tests and by callers that authenticate through another channel.
func SetUserID(c *gin.Context, userID int) {
	c.Set(ctxUserID, userID)
}

func GetIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return Identity{}, false
	}
	email, _ := c.Get(ctxUserEmail)
	role, _ := c.Get(ctxUserRole)
	emailStr, _ := email.(string)
	roleStr, _ := role.(string)
	return Identity{UserID: id, Email: emailStr, Role: roleStr}, true
}
