package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ray/bizdesk/internal/api"
	"github.com/ray/bizdesk/internal/config"
	"github.com/ray/bizdesk/internal/logger"
	"github.com/ray/bizdesk/internal/repository/postgres"
	"github.com/ray/bizdesk/internal/service"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
)

// sessionPurgeInterval controls how often stale sessions are swept from the
// store. Expired sessions are already rejected on use; the sweep just keeps
// the table from growing without bound.
const sessionPurgeInterval = time.Hour

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, db, cfg)

	// Initialize router
	router := api.NewRouter(services, hub, repos, cfg, log)

	purgeCtx, stopPurge := context.WithCancel(ctx)
	go purgeSessions(purgeCtx, services.Auth, log)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopPurge()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("server stopped")
}

func purgeSessions(ctx context.Context, auth *service.AuthService, log zerolog.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PurgeExpiredSessions(ctx); err != nil {
				log.Error().Err(err).Msg("failed to purge expired sessions")
			}
		}
	}
}
