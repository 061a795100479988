package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/gaslink/gaslink-backend/internal/catalog"
	"github.com/gaslink/gaslink-backend/pkg/config"
	"github.com/gaslink/gaslink-backend/pkg/db"
	"github.com/gaslink/gaslink-backend/pkg/logger"
	"github.com/gaslink/gaslink-backend/pkg/migrate"
)

// seed loads the default service catalog. Running it twice is safe:
// existing service codes are left untouched.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	repo := catalog.NewRepository(dbClient.DB())
	ctx := context.Background()

	inserted := 0
	services := catalog.DefaultCatalog()
	for i := range services {
		created, err := repo.Upsert(ctx, &services[i])
		if err != nil {
			logg.Error(logg.WithField(ctx, "code", string(services[i].Code)), "failed to seed service", err)
			os.Exit(1)
		}
		if created {
			inserted++
		}
	}

	logg.Info(logg.WithField(ctx, "inserted", inserted), "catalog seed complete")
}
