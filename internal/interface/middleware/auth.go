package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/user-service/pkg/helpers"
	"github.com/coursehub/user-service/pkg/response"
)

// Auth validates the bearer token and sets userID and userRole in the Gin
// context on success.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeValidation, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeValidation, "invalid token", nil)
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to a single role; Auth must run first.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != role {
			response.Error(c, http.StatusForbidden, response.CodeValidation, "insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
