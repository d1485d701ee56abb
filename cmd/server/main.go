package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dandantas/wikigeo/internal/config"
	"github.com/dandantas/wikigeo/internal/database"
	"github.com/dandantas/wikigeo/internal/handler"
	"github.com/dandantas/wikigeo/internal/model"
	"github.com/dandantas/wikigeo/internal/runner"
	"github.com/dandantas/wikigeo/internal/scheduler"
	"github.com/dandantas/wikigeo/internal/service"
	"github.com/dandantas/wikigeo/internal/sparql"
	"github.com/dandantas/wikigeo/internal/webhook"
	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	// Load .env when present, then configuration from the environment
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}
	cfg := config.Load()

	// Initialize logger
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("Starting WikiGeo Service", "version", version)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		logger.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	markerRepo := database.NewMarkerRepository(db)
	datasetRepo := database.NewDatasetRepository(db)
	runRepo := database.NewRunRepository(db)
	lockRepo := database.NewLockRepository(db)

	// Initialize SPARQL client and result sink
	sparqlClient := sparql.NewClient(cfg.SPARQLEndpoint, cfg.SPARQLUserAgent, cfg.SPARQLTimeout)
	sink := service.NewSink(datasetRepo, markerRepo)

	// Initialize completion webhook dispatcher
	var dispatcher *webhook.Dispatcher
	if cfg.WebhookURL != "" {
		dispatcher = webhook.NewDispatcher(cfg.WebhookURL, model.RetryConfig{
			MaxAttempts:    cfg.WebhookMaxAttempts,
			InitialDelayMs: cfg.WebhookInitialDelayMs,
		}, cfg.WebhookTimeout, logger)
	}

	// Initialize retrieval service
	retrieval := service.NewRetrievalService(
		runner.Config{
			BatchSize: cfg.BatchSize,
			Cooldown:  cfg.Cooldown,
			MaxRounds: cfg.MaxRounds,
		},
		cfg.ExportPath,
		sparqlClient,
		sink,
		runRepo,
		dispatcher,
		logger,
	)

	// Initialize refresh scheduler
	sched, err := scheduler.NewScheduler(cfg, retrieval, lockRepo, logger)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start(ctx)

	// Optionally kick off a retrieval run at startup
	if cfg.RunOnStart {
		runID, err := retrieval.StartRun("startup")
		if err != nil {
			logger.Error("Failed to start initial retrieval run", "error", err)
			os.Exit(1)
		}
		logger.Info("Started initial retrieval run", "run_id", runID)
	}

	// Initialize handlers
	runHandler := handler.NewRunHandler(retrieval, runRepo)
	datasetHandler := handler.NewDatasetHandler(datasetRepo, markerRepo)
	healthHandler := handler.NewHealthHandler(db, version)

	// Create router
	router := handler.NewRouter(runHandler, datasetHandler, healthHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop scheduler first (wait for in-flight refresh)
	logger.Info("Stopping scheduler...")
	sched.Stop(shutdownCtx)

	// Shutdown HTTP server
	logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("WikiGeo Service stopped")
}
