package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/database"
	"github.com/pageza/recetario/backend/internal/logger"
	"github.com/pageza/recetario/backend/internal/service"
)

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory holding the SQL migrations")
	flag.Parse()

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

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := service.NewIngredientService(db).SeedIngredients(ctx)
	if err != nil {
		log.Error("failed to seed ingredients", "error", err)
		os.Exit(1)
	}

	log.Info("seed complete", "ingredients", count)
}
