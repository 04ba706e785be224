package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	migrations "flightfinder/internal/migrations/mongo"
	"flightfinder/pkg/config"
)

const ServiceName = "migrate"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrations.RunMigration(ctx, cfg); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}
