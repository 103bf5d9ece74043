package middleware

import (
	"flagfeed/internal/repository"
	"flagfeed/pkg/constraints"

	"github.com/gin-gonic/gin"
)

// SDKAuthMiddleware gates the snapshot endpoint on a valid SDK API key.
func SDKAuthMiddleware(repo repository.SDKRepository, bypass bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bypass {
			c.Next()
			return
		}

		apiKey := c.GetHeader(constraints.HeaderAPIKey)
		if apiKey == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing API key"})
			return
		}

		ok, err := repo.ValidateAPIKey(c.Request.Context(), apiKey)
		if err != nil || !ok {
			c.AbortWithStatusJSON(403, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
