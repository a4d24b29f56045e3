package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyMiddleware rejects requests whose X-API-Key header does not match
// the configured device key. Rejection happens before any body parsing, so
// a bad credential has no side effects.
func APIKeyMiddleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := provider.ValidateKey(c.GetHeader(apiKeyHeader)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
