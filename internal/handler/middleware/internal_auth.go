package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceTokenHeader = "X-Internal-Token"

// RequireServiceToken guards collaborator-only routes with a shared
// token. Comparison is constant time.
func RequireServiceToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(serviceTokenHeader)
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid service token"})
			return
		}
		c.Next()
	}
}
