package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hh24tech/sisal-sync/internal/browser"
	"github.com/hh24tech/sisal-sync/internal/pkg/config"
	"github.com/hh24tech/sisal-sync/internal/pkg/dispatch"
	"github.com/hh24tech/sisal-sync/internal/pkg/health"
	"github.com/hh24tech/sisal-sync/internal/pkg/logging"
	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/pkg/normalize"
	"github.com/hh24tech/sisal-sync/internal/pkg/notify"
	"github.com/hh24tech/sisal-sync/internal/pkg/storage"
	"github.com/hh24tech/sisal-sync/internal/scrape"
	_ "github.com/hh24tech/sisal-sync/internal/scrape/sports"
)

const serviceName = "sisal-sync"

// defaultRotation is used when neither the config nor -sports names one.
var defaultRotation = []string{
	"american football", "basket", "soccer", "baseball", "ice hockey", "tennis",
}

func main() {
	configPath := flag.String("config", "configs/production.yaml", "path to config file")
	sportsFlag := flag.String("sports", "", "comma-separated category rotation, overrides the config")
	runFor := flag.Duration("run-for", 0, "stop after this duration (0 runs forever)")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	logging.SetupLogger(&cfg.Logging, serviceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *runFor > 0 {
		ctx, cancel = context.WithTimeout(ctx, *runFor)
		defer cancel()
	}

	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("Shutdown signal received", "signal", sig)
		interrupted.Store(true)
		cancel()
	}()

	status := health.NewStatus()
	if cfg.Health.Port > 0 {
		health.Run(ctx, health.AddrFor(cfg.Health.Port), serviceName, status, cfg.Health.ReadHeaderTimeout)
	}

	notifier, err := notify.New(&cfg.Telegram)
	if err != nil {
		slog.Warn("Telegram notifier disabled", "error", err)
	}

	dispatcher := dispatch.New(dispatch.Config{
		Endpoint:    cfg.Egress.Endpoint,
		Timeout:     cfg.Egress.Timeout,
		MaxAttempts: cfg.Egress.MaxAttempts,
		BackoffBase: cfg.Egress.BackoffBase,
		RateLimit:   cfg.Egress.RateLimit,
	})
	audit := storage.NewAuditWriter(cfg.Scraper.AuditDir)

	var store *storage.PostgresPayloadStorage
	if cfg.Postgres.DSN != "" {
		store, err = storage.NewPostgresPayloadStorage(&cfg.Postgres)
		if err != nil {
			slog.Warn("Postgres snapshot storage disabled", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	b, err := browser.New(ctx, &cfg.Browser)
	if err != nil {
		slog.Error("Failed to start browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	session := browser.NewSessionStore(cfg.Scraper.SessionFile)
	if err := session.Restore(ctx, b); err != nil {
		slog.Warn("Session restore failed, starting fresh", "error", err)
	}

	rotation := cfg.Scraper.Sports
	if *sportsFlag != "" {
		rotation = splitRotation(*sportsFlag)
	}
	if len(rotation) == 0 {
		rotation = defaultRotation
	}
	slog.Info("Starting catalog rotation",
		"rotation", strings.Join(rotation, ", "),
		"available", strings.Join(scrape.Available(), ", "))

	scraper := scrape.NewScraper(b, cfg.Scraper, status)
	handler := makeRegionHandler(dispatcher, audit, store, status, notifier)

	for ctx.Err() == nil {
		status.StartCycle()
		for _, sport := range rotation {
			if ctx.Err() != nil {
				break
			}
			start := time.Now()
			before := status.Snapshot()

			if err := scraper.RunCategory(ctx, sport, handler); err != nil {
				if ctx.Err() != nil {
					break
				}
				slog.Error("Category run failed", "category", sport, "error", err)
				notifier.Warnf("category %s failed: %v", sport, err)
				continue
			}

			after := status.Snapshot()
			notifier.RunSummary(sport,
				after.RegionsDone-before.RegionsDone,
				after.FixturesSeen-before.FixturesSeen,
				after.PayloadsSent-before.PayloadsSent,
				after.PayloadsFailed-before.PayloadsFailed,
				time.Since(start))
		}

		if err := session.Capture(ctx, b); err != nil {
			slog.Debug("Session capture failed", "error", err)
		}
		if store != nil {
			if err := store.CleanOlderThan(ctx, time.Now().Add(-24*time.Hour)); err != nil {
				slog.Warn("Snapshot cleanup failed", "error", err)
			}
		}

		if cfg.Scraper.RotationPause > 0 {
			slog.Info("Rotation finished, pausing", "pause", cfg.Scraper.RotationPause)
			select {
			case <-ctx.Done():
			case <-time.After(cfg.Scraper.RotationPause):
			}
		}
	}

	if interrupted.Load() {
		os.Exit(130)
	}
}

// makeRegionHandler wires a finished region into the delivery pipeline:
// audit file first, then one canonical payload per fixture to the collector,
// mirrored into Postgres when configured.
func makeRegionHandler(dispatcher *dispatch.Dispatcher, audit *storage.AuditWriter,
	store *storage.PostgresPayloadStorage, status *health.Status, notifier *notify.Notifier) scrape.RegionHandler {
	return func(ctx context.Context, category, region string, records []models.OddsRecord) {
		if path, err := audit.WriteRegion(category, region, records); err != nil {
			slog.Warn("Audit write failed", "category", category, "region", region, "error", err)
		} else {
			slog.Info("Region extracted", "category", category, "region", region,
				"fixtures", len(records), "audit", path)
		}

		now := time.Now().UTC()
		for _, rec := range records {
			payload := normalize.Build(rec, category, now)

			res, err := dispatcher.Send(ctx, payload)
			if err != nil {
				status.PayloadFailed(err.Error())
				slog.Warn("Payload dispatch failed", "teams", rec.Teams,
					"attempts", res.Attempts, "error", err)
				notifier.Warnf("dispatch failed for %s: %v", rec.Teams, err)
				continue
			}
			status.PayloadSent()

			if store != nil {
				if err := store.StorePayload(ctx, region, payload); err != nil {
					slog.Warn("Snapshot store failed", "teams", rec.Teams, "error", err)
				}
			}
		}
	}
}

func splitRotation(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
