package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/campaigndeck/campaigndeck-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName   string
	LedgerHandler *handlers.LedgerHandler
	AllowOrigins  []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "campaigndeck"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/ledger", cfg.LedgerHandler.List)
		api.POST("/ledger", cfg.LedgerHandler.Create)
		api.GET("/ledger/:id", cfg.LedgerHandler.Get)
		api.POST("/ledger/:id/status", cfg.LedgerHandler.AdvanceStatus)
	}

	return router
}
