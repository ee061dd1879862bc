package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeremiep/portfolio-be/types"
)

// AdminAuthMiddleware guards the mutating ingestion routes with a shared
// admin key, accepted either as "Authorization: Bearer <key>" or via the
// X-Admin-Key header. An empty configured key locks the routes entirely.
func AdminAuthMiddleware(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, types.DataResponse{
				Success: false,
				Message: "Admin access is not configured",
			})
			return
		}

		provided := c.GetHeader("X-Admin-Key")
		if provided == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				provided = parts[1]
			}
		}
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Success: false,
				Message: "Admin key is required",
			})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Success: false,
				Message: "Invalid admin key",
			})
			return
		}
		c.Next()
	}
}
