package httpserver

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminTokenHeader carries the shared admin secret.
const adminTokenHeader = "X-Admin-Token"

// adminAuth gates admin routes behind a shared-secret header. The comparison
// is constant-time and the response never says whether a token exists or
// merely mismatched. An empty configured token disables the admin surface.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(adminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
