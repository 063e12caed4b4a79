package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/app"
	"github.com/peerseeker/peerseeker-backend/internal/config"
	"github.com/peerseeker/peerseeker-backend/internal/db"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	// Apply schema migrations
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Init modules
	container, err := app.NewContainer(app.Config{
		IsProduction:  cfg.IsProduction,
		ProdOrigins:   cfg.ProdOrigins,
		DBPool:        pool,
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTAccessTokenTTL,
		BcryptCost:    cfg.BcryptCost,
		AvatarDir:     cfg.AvatarDir,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DirectoryTTL:  cfg.DirectoryTTL,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to init application", zap.Error(err))
	}
	defer container.Close() //nolint:errcheck

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
