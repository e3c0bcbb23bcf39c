// Deletes payload snapshots that have not been refreshed within the
// retention window. Meant for cron; the scraper also cleans after each
// rotation.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hh24tech/sisal-sync/internal/pkg/config"
	"github.com/hh24tech/sisal-sync/internal/pkg/storage"
)

func main() {
	configPath := flag.String("config", "configs/production.yaml", "path to config file")
	olderThan := flag.Duration("older-than", 24*time.Hour, "delete snapshots not refreshed within this window")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	store, err := storage.NewPostgresPayloadStorage(&cfg.Postgres)
	if err != nil {
		slog.Error("Failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-*olderThan)
	if err := store.CleanOlderThan(ctx, cutoff); err != nil {
		slog.Error("Cleanup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Cleanup finished", "cutoff", cutoff.Format(time.RFC3339))
}
