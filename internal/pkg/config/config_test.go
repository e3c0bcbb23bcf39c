package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
scraper:
  sports: ["basket", "tennis"]
  rotation_pause: 30s
egress:
  max_attempts: 4
  backoff_base: 400ms
telegram:
  chat_id: 42
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POSTGRES_DSN", "postgres://env-dsn")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Scraper.Sports; len(got) != 2 || got[0] != "basket" {
		t.Errorf("Sports = %v", got)
	}
	if cfg.Scraper.RotationPause != 30*time.Second {
		t.Errorf("RotationPause = %v, want 30s", cfg.Scraper.RotationPause)
	}
	if cfg.Egress.BackoffBase != 400*time.Millisecond {
		t.Errorf("BackoffBase = %v, want 400ms", cfg.Egress.BackoffBase)
	}
	if cfg.Postgres.DSN != "postgres://env-dsn" {
		t.Errorf("DSN = %q, env override lost", cfg.Postgres.DSN)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("BotToken = %q, env override lost", cfg.Telegram.BotToken)
	}

	// Defaults for everything the file left out.
	if cfg.Scraper.WarmupRegions != 3 || cfg.Scraper.MaxScrollRounds != 30 ||
		cfg.Scraper.ToggleRetries != 6 || cfg.Scraper.ExpandRetries != 5 {
		t.Errorf("scraper defaults wrong: %+v", cfg.Scraper)
	}
	if cfg.Scraper.SessionFile != "session.json" {
		t.Errorf("SessionFile = %q", cfg.Scraper.SessionFile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load() expected error for missing file")
	}
}
