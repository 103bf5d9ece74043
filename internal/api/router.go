package api

import (
	"flagfeed/internal/metrics"
	"flagfeed/internal/middleware"
	"flagfeed/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(flagHandler *FlagHandler, sdkRepo repository.SDKRepository, rdb *redis.Client, requestsPerSecond int, env string) *gin.Engine {
	r := gin.New()

	// Load tests run without provisioned SDK keys.
	bypassAuth := env == "loadtest"

	r.Use(
		middleware.CorsMiddleware(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(),
		middleware.Metrics(),
	)
	r.SetTrustedProxies(nil)

	// Public Routes
	r.GET("/health", flagHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Snapshot Routes (Protected by SDK Key)
	flags := r.Group("/v1/flags")
	flags.Use(
		middleware.SDKAuthMiddleware(sdkRepo, bypassAuth),
		middleware.RateLimit(rdb, requestsPerSecond),
	)
	{
		flags.GET("/snapshot", flagHandler.Snapshot)
		flags.GET("/:id", flagHandler.GetFlag)
	}

	return r
}
