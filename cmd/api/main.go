package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spinmate/wheel-backend/api/routes"
	"github.com/spinmate/wheel-backend/internal/config"
	"github.com/spinmate/wheel-backend/internal/handlers"
	"github.com/spinmate/wheel-backend/internal/repositories"
	mongorepo "github.com/spinmate/wheel-backend/internal/repositories/mongodb"
	"github.com/spinmate/wheel-backend/internal/services"
	"github.com/spinmate/wheel-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

func main() {
	// Load .env file if present, real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var accountRepo repositories.AccountRepository = mongorepo.NewAccountRepository(db)
	var spinRepo repositories.SpinRepository = mongorepo.NewSpinRepository(db)
	var referralRepo repositories.ReferralRepository = mongorepo.NewReferralRepository(db)
	var leadRepo repositories.LeadRepository = mongorepo.NewLeadRepository(db)
	var taskRepo repositories.FallbackTaskRepository = mongorepo.NewFallbackTaskRepository(db)
	var wheelRepo repositories.WheelRepository = mongorepo.NewWheelRepository(db)
	var tenantRepo repositories.TenantRepository = mongorepo.NewTenantRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Services
	registry := services.NewNotifierRegistry(tenantRepo, cfg)
	wheelService := services.NewWheelService(wheelRepo)
	attemptService := services.NewAttemptService(accountRepo, spinRepo, referralRepo, cfg.Wheel.BaseAttempts, cfg.Wheel.ReferralBonus)
	referralService := services.NewReferralService(referralRepo, registry)
	fallbackService := services.NewFallbackService(taskRepo, leadRepo, registry, cfg.Fallback.Delay)
	sweepService := services.NewSweepService(taskRepo, fallbackService, cfg.Fallback.SweepInterval, cfg.Fallback.SweepBatchSize)
	spinService := services.NewSpinService(accountRepo, spinRepo, leadRepo, wheelService, attemptService, referralService, fallbackService, registry)
	authService := services.NewAuthService(adminRepo, cfg)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		SpinHandler:  handlers.NewSpinHandler(spinService),
		WheelHandler: handlers.NewWheelHandler(wheelService),
		AuthHandler:  handlers.NewAuthHandler(authService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	if err := sweepService.Start(); err != nil {
		slog.Error("Failed to start sweep scheduler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	sweepService.Stop()
	fallbackService.Close()

	slog.Info("Server exiting")
}
