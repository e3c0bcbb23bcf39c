package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Italia", "italia"},
		{"Gran Bretagna", "gran_bretagna"},
		{"  Coppa / UEFA  ", "coppa_uefa"},
		{"serie-a", "serie-a"},
		{"U.S.A.", "u_s_a"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.input); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteRegion(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	w := NewAuditWriter(dir)

	records := []models.OddsRecord{
		{
			Teams: "Inter vs Milan",
			Odds: models.MarketSet{
				One: models.Float(2.1),
				X:   models.Float(3.2),
				Two: models.Float(3.4),
			},
		},
	}

	path, err := w.WriteRegion("Calcio", "Italia", records)
	if err != nil {
		t.Fatalf("WriteRegion() error = %v", err)
	}
	if filepath.Base(path) != "calcio_italia_odds.json" {
		t.Errorf("file name = %q, want calcio_italia_odds.json", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var back []models.OddsRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal artifact: %v", err)
	}
	if len(back) != 1 || back[0].Teams != "Inter vs Milan" {
		t.Errorf("artifact content = %+v", back)
	}
	if back[0].Odds.GG != nil {
		t.Errorf("absent GG must stay absent in the artifact")
	}
}
