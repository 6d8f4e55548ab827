package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memehustle/backend/internal/api"
	"github.com/memehustle/backend/internal/api/middleware"
	"github.com/memehustle/backend/internal/config"
	"github.com/memehustle/backend/internal/logger"
	"github.com/memehustle/backend/internal/realtime"
	"github.com/memehustle/backend/internal/repository"
	"github.com/memehustle/backend/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.SetDefaultLogger(logger.NewDefault())
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	memeRepo := repository.NewMemeRepository(db)
	bidRepo := repository.NewBidRepository(db)

	// Initialize generation cache and generator
	genCache, err := service.NewGenCache(cfg.Cache.Capacity)
	if err != nil {
		logger.Fatal("Failed to initialize generation cache: %v", err)
	}
	generator := service.NewGeneratorService(&service.GeneratorConfig{
		Provider: cfg.Generator.Provider,
		Model:    cfg.Generator.Model,
		APIKey:   cfg.Generator.APIKey,
		BaseURL:  cfg.Generator.BaseURL,
	})
	logger.Info("Generator initialized: model=%s", generator.GetModel())

	// Initialize leaderboard projection and warm it up
	leaderboard := service.NewLeaderboard(memeRepo, cfg.Leaderboard.Size)
	leaderboard.Refresh(context.Background())

	// Initialize realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize the shared mutation service
	memeService := service.NewMemeService(
		memeRepo,
		bidRepo,
		generator,
		genCache,
		leaderboard,
		hub,
	)

	// Setup router
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}
	router := api.SetupRouter(memeService, hub, corsConfig, cfg.Server.Mode)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting API server: port=%d, mode=%s", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
