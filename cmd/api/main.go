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

	"advanced-form/config"
	_ "advanced-form/docs" // Important for Swagger
	v1 "advanced-form/internal/delivery/http/v1"
	"advanced-form/internal/domain"
	"advanced-form/internal/repository/memory"
	"advanced-form/internal/repository/postgres"
	"advanced-form/internal/usecase"
	"advanced-form/pkg/database"
	"advanced-form/pkg/logger"
	"advanced-form/pkg/redis"
	"advanced-form/pkg/storage"
	"advanced-form/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Advanced Form API
// @version         1.0
// @description     Validation and submission API for the advanced form demo.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting advanced form server", "port", cfg.Port, "storage", cfg.StorageDriver)

	ctx := context.Background()
	checks := map[string]usecase.HealthCheck{}

	// 3. Setup Redis (optional, rate limiting falls back to memory)
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		}
	} else {
		defer redis.Close()
		checks["redis"] = redis.HealthCheck
	}

	// 4. Setup Result Repository
	var results domain.ResultRepository = memory.NewResultRepository()
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := postgres.EnsureSchema(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to prepare schema", "error", err)
			os.Exit(1)
		}
		repo := postgres.NewResultRepository(dbPool, time.Duration(cfg.ResultTTLHours)*time.Hour)
		go purgeExpiredResults(ctx, repo, time.Hour)
		results = repo
		checks["database"] = dbPool.Ping
	}

	// 5. Setup Avatar Storage
	sink, err := storage.Open(ctx, storageConfig(cfg))
	if err != nil {
		logger.Log.Error("Failed to configure avatar storage", "error", err)
		os.Exit(1)
	}

	// 6. Setup UseCases
	formUC := usecase.NewFormUsecase(validation.NewChecker(nil), sink, cfg.AvatarBucket, results)
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		FormUC:        formUC,
		HealthUC:      healthUC,
		Config:        cfg,
		SecureCookies: gin.Mode() == gin.ReleaseMode,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// purgeExpiredResults removes stored results past their retention, which
// also drops the passwords they echo.
func purgeExpiredResults(ctx context.Context, repo *postgres.ResultRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				logger.Log.Warn("Failed to purge expired results", "error", err)
				continue
			}
			if n > 0 {
				logger.Log.Info("Purged expired results", "count", n)
			}
		}
	}
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Driver: cfg.StorageDriver,
		S3: storage.S3ClientConfig{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			WasabiEndpoint:  cfg.WasabiEndpoint,
		},
		Minio: storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Region:    cfg.MinioRegion,
		},
		Supabase: storage.SupabaseConfig{
			URL:        cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseServiceKey,
		},
	}
}
