package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"homeward_notifications/internal/config"
	"homeward_notifications/internal/http/controller"
	"homeward_notifications/internal/http/middleware"
	"homeward_notifications/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		otelgin.Middleware(cfg.OTELServiceName),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	api.GET("/notifications", handler.List)
	api.GET("/notifications/count", handler.Count)
	api.GET("/notifications/stream", handler.Stream)
	api.GET("/notifications/:id", handler.Get)
	api.PATCH("/notifications/mark-read", handler.MarkRead)
	api.DELETE("/notifications", handler.Delete)
	api.POST("/events", handler.PublishEvent)

	return router
}
