package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/compute"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/rediscache"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/scoring"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/config"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/db"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/handlers"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/middleware"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/observability"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/server"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/services"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	if shutdown := observability.InitTracing(context.Background(), log, "adivirtus-backend"); shutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	postgresService, err := db.NewPostgresService(cfg, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	submissionRepo := repos.NewAssessmentSubmissionRepo(thePG, log)
	resultRepo := repos.NewInterpretationResultRepo(thePG, log)
	baselineRepo := repos.NewBaselineMatrixRepo(thePG, log)
	idealRepo := repos.NewIdealMatrixRepo(thePG, log)
	skillRepo := repos.NewSkillRepo(thePG, log)

	// Clients
	log.Info("Setting up clients...")
	statusCache := rediscache.New(cfg.RedisAddr, cfg.StatusCacheTTL, log)
	computeClient := compute.New(cfg.ComputeServiceURL, cfg.ComputeServiceTimeout, log)
	scoringClient := scoring.New(cfg.ScoringServiceURL, log)

	// Services
	log.Info("Setting up services...")
	interpretationService := services.NewInterpretationService(thePG, log, resultRepo, submissionRepo, statusCache)
	reconcilerService := services.NewReconcilerService(thePG, log, resultRepo, submissionRepo, computeClient, statusCache)
	gapAnalysisService := services.NewGapAnalysisService(thePG, log, baselineRepo, idealRepo, scoringClient)
	migrationService := services.NewMigrationService(thePG, log, idealRepo, skillRepo)

	// Handlers
	log.Info("Setting up handlers...")
	interpretationHandler := handlers.NewInterpretationHandler(interpretationService, reconcilerService)
	gapAnalysisHandler := handlers.NewGapAnalysisHandler(gapAnalysisService)
	migrationHandler := handlers.NewMigrationHandler(migrationService)

	authMiddleware := middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)

	router := server.NewRouter(server.RouterConfig{
		InterpretationHandler: interpretationHandler,
		GapAnalysisHandler:    gapAnalysisHandler,
		MigrationHandler:      migrationHandler,
		AuthMiddleware:        authMiddleware,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
