package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rowanvale/chirp/internal/config"
	"github.com/rowanvale/chirp/internal/database"
	"github.com/rowanvale/chirp/internal/logging"
	"github.com/rowanvale/chirp/internal/server"
)

const sweepInterval = time.Hour

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, cfg.AllowedOrigins, logger)

	// Startup sweep, then periodic housekeeping. Expiry is also enforced
	// lazily at lookup, so this only keeps the table tidy.
	if n, err := srv.SessionStore().DeactivateExpired(); err != nil {
		logger.Warn("session sweep failed", "error", err)
	} else if n > 0 {
		logger.Info("swept expired sessions", "count", n)
	}
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := srv.SessionStore().DeactivateExpired(); err != nil {
				logger.Warn("session sweep failed", "error", err)
			} else if n > 0 {
				logger.Info("swept expired sessions", "count", n)
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("chirp listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
