package middleware

import (
	"net/http"
	"strings"

	"vie_bot/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the request from an Authorization bearer token or a
// ?token= query parameter and stores user_id and admin in the context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("admin", claims.Admin)
		c.Next()
	}
}

// RequireAdmin must run after JWT. Admin tokens pass, as do users listed by
// isAdmin.
func RequireAdmin(isAdmin func(userID string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("admin") || (isAdmin != nil && isAdmin(c.GetString("user_id"))) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
