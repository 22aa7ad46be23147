package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openfoods/openfoods/config"
	"github.com/openfoods/openfoods/internal/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.SugaredLogger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log = logger.OrNop(log)

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	api := router.Group(cfg.Server.BasePath)
	{
		food := api.Group("/food")
		{
			food.GET("", handler.ListFoods)
			food.PUT("/:id/like", handler.LikeFood)
			food.PUT("/:id/unlike", handler.UnlikeFood)
		}
	}

	return router
}
