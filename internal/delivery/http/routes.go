package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailpulse/console/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler, metricsHandler http.Handler, log *zap.SugaredLogger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/stats", handler.DashboardStats)
			dashboard.POST("/refresh", handler.RefreshDashboard)
		}

		scope := v1.Group("/scope")
		{
			scope.GET("", handler.GetScope)
			scope.PUT("", handler.SwitchScope)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("/:id", handler.LocationDetail)
			locations.GET("/:id/stats", handler.LocationStats)
		}
	}

	// Anonymous-facing surface; everything above requires the console.
	router.GET("/public/products/:key", handler.PublicProduct)

	return router
}
