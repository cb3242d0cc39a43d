package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/handlers"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/middleware"
)

type RouterConfig struct {
	InterpretationHandler *handlers.InterpretationHandler
	GapAnalysisHandler    *handlers.GapAnalysisHandler
	MigrationHandler      *handlers.MigrationHandler
	AuthMiddleware        *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("adivirtus-backend"))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.ParseIdentity())
	{
		api.POST("/interpretations", cfg.InterpretationHandler.Start)
		api.GET("/interpretations/status", cfg.InterpretationHandler.Status)
		api.POST("/interpretations/reconcile", cfg.InterpretationHandler.Reconcile)

		api.GET("/baselines/exists", cfg.GapAnalysisHandler.CheckExists)
		api.GET("/gap-analysis/:baselineId", cfg.GapAnalysisHandler.GetView)
	}

	migrations := router.Group("/api/migrations")
	migrations.Use(cfg.AuthMiddleware.RequireAuthorizationHeader())
	{
		migrations.POST("/run", cfg.MigrationHandler.Run)
	}

	return router
}
