package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agriguard/agriguard-go/internal/clients/forecast"
	"github.com/agriguard/agriguard-go/internal/clients/generation"
	"github.com/agriguard/agriguard-go/internal/clients/mcsi"
	"github.com/agriguard/agriguard-go/internal/clients/retrieval"
	"github.com/agriguard/agriguard-go/internal/config"
	"github.com/agriguard/agriguard-go/internal/database"
	"github.com/agriguard/agriguard-go/internal/modules/advisory"
	"github.com/agriguard/agriguard-go/internal/modules/counties"
	"github.com/agriguard/agriguard-go/internal/modules/orchestrator"
	"github.com/agriguard/agriguard-go/internal/scheduler"
	"github.com/agriguard/agriguard-go/internal/server"
	"github.com/agriguard/agriguard-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting AgriGuard orchestrator")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// County registry (baseline yields for forecast fallbacks)
	countyRepo := counties.NewRepository(db, log)
	if err := countyRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare county registry")
	}

	// Advisory rule thresholds (TOML, defaults when the file is absent)
	advCfg, err := advisory.LoadConfig(cfg.AdvisoryConfigPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load advisory configuration")
	}

	// Collaborator clients. Stress and yield carry fallback addresses for
	// local development; retrieval and generation are optional enrichment.
	stressClient := mcsi.NewClient(cfg.StressAddresses(), log)
	yieldClient := forecast.NewClient(cfg.YieldAddresses(), log)

	var ragClient *retrieval.Client
	if cfg.RetrievalURL != "" {
		ragClient = retrieval.NewClient([]string{cfg.RetrievalURL}, log)
	}

	genClient, err := generation.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize generation client")
	}

	// Orchestration service and HTTP handler
	svc := orchestrator.NewService(orchestrator.ServiceConfig{
		StressClient:   stressClient,
		YieldClient:    yieldClient,
		RagClient:      ragClient,
		GenClient:      genClient,
		Counties:       countyRepo,
		AdvisoryConfig: advCfg,
		SeasonYear:     cfg.SeasonYear,
		Log:            log,
	})
	handler := orchestrator.NewHandler(svc, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if err := registerJobs(sched, stressClient, yieldClient, ragClient, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:         cfg.Port,
		Log:          log,
		Config:       cfg,
		Orchestrator: handler,
		DevMode:      cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(sched *scheduler.Scheduler, stressClient *mcsi.Client, yieldClient *forecast.Client, ragClient *retrieval.Client, log zerolog.Logger) error {
	probes := map[string]scheduler.HealthProbe{
		"mcsi":  stressClient,
		"yield": yieldClient,
	}
	if ragClient != nil {
		probes["rag"] = ragClient
	}

	return sched.AddJob("@every 5m", scheduler.NewUpstreamHealthJob(probes, log))
}
