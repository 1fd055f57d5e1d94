package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neoflix/neoflix-api/internal/auth"
	"github.com/neoflix/neoflix-api/internal/models"
	"github.com/neoflix/neoflix-api/internal/tokens"
)

const userKey = "user"

// Auth returns a Gin middleware that verifies Bearer tokens signed with the
// given secret and places the authenticated user in the request context.
// Identity comes entirely from the claims; no database lookup happens here.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := tokens.Parse(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("claims", map[string]interface{}(claims))
		c.Set(userKey, auth.ClaimsToUser(claims))
		c.Next()
	}
}

// CurrentUser returns the user placed in the context by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := val.(models.User)
	return u, ok
}
