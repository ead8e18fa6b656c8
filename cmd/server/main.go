package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blog-content-api/internal/api"
	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/content"
	"github.com/blog-content-api/internal/store"
	"github.com/blog-content-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting blog content API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize the content store backend
	var backend store.Store
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pg, err := store.NewPostgres(&cfg.Store, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pg.Close()

		migrationsPath := os.Getenv("MIGRATIONS_PATH")
		if migrationsPath == "" {
			migrationsPath = "./migrations"
		}
		if err := pg.RunMigrations(migrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		backend = pg

	case config.BackendDynamoDB:
		dyn, err := store.NewDynamoDB(context.Background(), &cfg.Store, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize DynamoDB client")
		}
		backend = dyn

	default:
		log.Warn().Msg("Using in-memory store backend; data will not survive a restart")
		backend = store.NewMemory()
	}

	// Initialize the content layer and router
	contentStore := content.New(backend, cfg.Store.Table, log)
	router := api.NewRouter(contentStore, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Store.Backend).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
