// Package storage persists scraping output: per-region audit artifacts on
// disk and optional payload snapshots in Postgres.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
)

// AuditWriter writes one JSON document per region containing the raw
// (pre-normalization) odds records, named {category}_{region}_odds.json.
type AuditWriter struct {
	dir string
}

func NewAuditWriter(dir string) *AuditWriter {
	return &AuditWriter{dir: dir}
}

// WriteRegion persists the region's records and returns the file path.
func (w *AuditWriter) WriteRegion(category, region string, records []models.OddsRecord) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audit dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s_odds.json", sanitize(category), sanitize(region))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}
	return path, nil
}

// sanitize keeps file names portable: anything outside [a-z0-9-] becomes an
// underscore, runs collapse to one.
func sanitize(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
