package middleware

import (
	"context"
	"net/http"
	"strings"

	"stackvault/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}

		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RoleLookup returns the stored role for email. An unknown user yields an
// empty role and a nil error.
type RoleLookup func(ctx context.Context, email string) (string, error)

// RefreshRole replaces the role carried by the token with the stored one, so
// a demotion takes effect before the token expires. It must run after
// AuthMiddleware and before RequireRole.
func RefreshRole(lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := lookup(c.Request.Context(), c.GetString(ContextUserEmail))
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to verify role"})
			c.Abort()
			return
		}

		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
		c.Abort()
	}
}
