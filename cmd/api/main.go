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
	"trial-intake-api/config"
	_ "trial-intake-api/docs" // Important for Swagger
	v1 "trial-intake-api/internal/delivery/http/v1"
	"trial-intake-api/internal/repository/webhook"
	"trial-intake-api/internal/usecase"
	"trial-intake-api/pkg/logger"
	"trial-intake-api/pkg/redis"
	"trial-intake-api/pkg/security"
	"trial-intake-api/pkg/validation"
)

// @title           Trial Intake API
// @version         1.0
// @description     Free-trial request intake for the trading-signals landing page.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting trial intake API", "port", cfg.Port, "env", cfg.Environment)

	events := security.InitSecurityLogger(cfg.ServiceName, cfg.Environment)
	defer func() { _ = events.Sync() }()

	// 3. Setup Redis (optional, rate limiting falls back to memory)
	var redisCheck func(ctx context.Context) error
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
			redisCheck = redis.HealthCheck
		}
	} else {
		redisCheck = redis.HealthCheck
		defer func() { _ = redis.Close() }()
	}

	// 4. Setup Webhook Notifier
	notifier := webhook.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.WebhookTimeout)
	if !notifier.Configured() {
		logger.Log.Warn("Discord webhook not configured - trial requests will be accepted but not relayed")
	}

	// 5. Setup UseCases
	trialUC := usecase.NewTrialUsecase(notifier, validation.New(), events)
	healthUC := usecase.NewHealthUsecase(notifier, redisCheck)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		TrialUC:  trialUC,
		HealthUC: healthUC,
		Events:   events,
		Config:   cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
