package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hh24tech/sisal-sync/internal/pkg/config"
	"github.com/hh24tech/sisal-sync/internal/pkg/normalize"
	_ "github.com/lib/pq"
)

// PostgresPayloadStorage keeps the latest canonical payload per
// (sport, teams). One row per fixture, updated on each run.
type PostgresPayloadStorage struct {
	db *sql.DB
}

func NewPostgresPayloadStorage(cfg *config.PostgresConfig) (*PostgresPayloadStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresPayloadStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL payload storage initialized successfully")
	return s, nil
}

func (s *PostgresPayloadStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS payload_snapshots (
		id SERIAL PRIMARY KEY,
		sport VARCHAR(100) NOT NULL,
		teams VARCHAR(500) NOT NULL,
		region VARCHAR(200) NOT NULL DEFAULT '',
		bookmaker VARCHAR(100) NOT NULL,
		odds JSONB NOT NULL,
		scraped_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(sport, teams)
	);

	CREATE INDEX IF NOT EXISTS idx_payload_snapshots_sport ON payload_snapshots(sport);
	CREATE INDEX IF NOT EXISTS idx_payload_snapshots_scraped_at ON payload_snapshots(scraped_at);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StorePayload saves the current payload for (sport, teams).
// Uses UPSERT: one row per fixture, refreshed on each call.
func (s *PostgresPayloadStorage) StorePayload(ctx context.Context, region string, p normalize.Payload) error {
	odds, err := json.Marshal(p.Odds)
	if err != nil {
		return fmt.Errorf("failed to marshal odds: %w", err)
	}
	scrapedAt, err := time.Parse(time.RFC3339Nano, p.ScrapedAtUTC)
	if err != nil {
		return fmt.Errorf("failed to parse scraped_at: %w", err)
	}

	query := `
	INSERT INTO payload_snapshots (sport, teams, region, bookmaker, odds, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (sport, teams) DO UPDATE SET
		region = EXCLUDED.region,
		bookmaker = EXCLUDED.bookmaker,
		odds = EXCLUDED.odds,
		scraped_at = EXCLUDED.scraped_at
	`
	_, err = s.db.ExecContext(ctx, query, p.Sport, p.Teams, region, p.Bookmaker, odds, scrapedAt)
	return err
}

// CleanOlderThan deletes snapshots whose last refresh is before cutoff.
func (s *PostgresPayloadStorage) CleanOlderThan(ctx context.Context, cutoff time.Time) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM payload_snapshots WHERE scraped_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean payload_snapshots: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		slog.Info("Cleaned stale payload snapshots", "rows_deleted", rows)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresPayloadStorage) Close() error {
	return s.db.Close()
}
