// Sends one synthetic payload to the collector endpoint. Useful to verify
// connectivity and the retry path before starting a real run.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hh24tech/sisal-sync/internal/pkg/config"
	"github.com/hh24tech/sisal-sync/internal/pkg/dispatch"
	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/pkg/normalize"
)

func main() {
	configPath := flag.String("config", "configs/production.yaml", "path to config file")
	category := flag.String("category", "soccer", "category label for the probe payload")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	dispatcher := dispatch.New(dispatch.Config{
		Endpoint:    cfg.Egress.Endpoint,
		Timeout:     cfg.Egress.Timeout,
		MaxAttempts: cfg.Egress.MaxAttempts,
		BackoffBase: cfg.Egress.BackoffBase,
		RateLimit:   cfg.Egress.RateLimit,
	})

	rec := models.OddsRecord{Teams: "Probe Home vs Probe Away"}
	rec.Odds.One = models.Float(2.0)
	rec.Odds.X = models.Float(3.3)
	rec.Odds.Two = models.Float(3.8)
	payload := normalize.Build(rec, *category, time.Now().UTC())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := dispatcher.Send(ctx, payload)
	if err != nil {
		slog.Error("Probe dispatch failed", "attempts", res.Attempts, "status", res.Status, "error", err)
		os.Exit(1)
	}
	slog.Info("Probe dispatched", "status", res.Status, "attempts", res.Attempts, "body", res.Body)
}
