package main

import (
	"context"

	"cfb-pickem-go/config"
	"cfb-pickem-go/database"
	"cfb-pickem-go/logging"
	"cfb-pickem-go/services"
)

func main() {
	logging.Info("=== Seed Team Aliases ===")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := database.NewMongoTeamAliasRepository(db)

	count, err := services.SeedAliases(ctx, repo, nil, services.DefaultTeamAliases())
	if err != nil {
		logging.Fatalf("Seeding failed: %v", err)
	}
	logging.Infof("Seeded %d aliases", count)
}
