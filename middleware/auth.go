package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/common/auth"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
)

const (
	UserContextKey = "userID"
	RoleContextKey = "role"
)

// TokenParser validates an access token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid bearer token. Websocket clients cannot set
// headers from the browser, so a token query parameter is also accepted.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, no token"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, token failed"})
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Set(RoleContextKey, claims.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// AdminOnly restricts access to the admin role. It must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != string(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not authorized as an admin"})
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller.
func GetActor(c *gin.Context) (models.Actor, error) {
	id, err := uuid.Parse(c.GetString(UserContextKey))
	if err != nil {
		return models.Actor{}, errors.New("user ID not found in context")
	}
	role := models.Role(c.GetString(RoleContextKey))
	if role == "" {
		role = models.RoleCustomer
	}
	return models.Actor{UserID: id, Role: role}, nil
}
