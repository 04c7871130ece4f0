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

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/handler"
	"github.com/GoPolymarket/yieldgate/internal/llm"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/GoPolymarket/yieldgate/internal/repository"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logger.Init(cfg.Log.Level)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Initialize Persistence
	// Provider quotas (Redis > Memory)
	var redisClient *repository.RedisClient
	var usageRepo llm.UsageRepo
	if cfg.Redis.Addr != "" {
		redisClient, err = repository.NewRedisClient(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis", "addr", cfg.Redis.Addr)
			usageRepo = redisClient
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
			redisClient = nil
		}
	}
	if usageRepo == nil {
		usageRepo = service.NewProviderUsageStore()
	}

	// Audit persistence (Postgres > Redis list > log only)
	var auditRepo service.AuditRepo
	if cfg.Database.DSN != "" {
		db, err := repository.NewDB(cfg)
		if err == nil {
			logger.Info("✅ Connected to PostgreSQL")
			auditRepo = repository.NewPostgresAuditRepo(db)
		} else {
			logger.Error("⚠️ Failed to connect to DB, audit logs will not be persisted to Postgres", "error", err)
		}
	}
	if auditRepo == nil && redisClient != nil {
		auditRepo = repository.NewRedisAuditRepo(redisClient, "", 0)
	}

	// 4. Initialize Core Services
	services := service.NewServices(cfg, usageRepo)
	auditSvc := service.NewAuditService(auditRepo)
	logger.Info("AI provider chain ready", "providers", services.Recommendations.Providers())

	// 5. Setup Router
	r := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Services: services,
		Audit:    auditSvc,
	})

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 YieldGate started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	auditSvc.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exiting")
}
