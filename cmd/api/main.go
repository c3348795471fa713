package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/api"
	"github.com/pageza/recetario/backend/internal/database"
	"github.com/pageza/recetario/backend/internal/logger"
	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/server"
	"github.com/pageza/recetario/backend/internal/service"
)

const s3KeyPrefix = "ingredient-images"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, getMigrationsDir()); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Rate limiting is optional; without Redis every request is allowed
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Warn("rate limiting disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	store, err := newImageStore(context.Background(), cfg)
	if err != nil {
		log.Error("failed to initialize image storage", "storage", cfg.ImageStorage, "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, log, api.Services{
		DB:             db,
		Ingredients:    service.NewIngredientService(db),
		Images:         service.NewImageService(store, cfg.MaxUploadBytes),
		UploadLimiter:  middleware.NewUploadRateLimiter(redisClient, cfg.UploadRateLimit),
		SeedLimiter:    middleware.NewSeedRateLimiter(redisClient, cfg.SeedRateLimit),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	case sig := <-quit:
		log.Info("received signal", "signal", sig.String())
	}

	log.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newImageStore(ctx context.Context, cfg *config.Config) (service.IImageStore, error) {
	if cfg.ImageStorage == config.StorageS3 {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return service.NewS3ImageStore(s3Config, s3KeyPrefix), nil
	}
	return service.NewLocalImageStore(cfg.UploadsDir, "/uploads")
}

func getMigrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
