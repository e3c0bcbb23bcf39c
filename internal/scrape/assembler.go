package scrape

import (
	"github.com/hh24tech/sisal-sync/internal/pkg/models"
)

// Assembler accumulates per-region records and drops duplicate fixtures.
// The dedup key is the case-insensitive "home vs away" string; the first
// occurrence wins.
type Assembler struct {
	seen    map[string]struct{}
	records []models.OddsRecord
}

func NewAssembler() *Assembler {
	return &Assembler{seen: make(map[string]struct{})}
}

// Add stores the record unless its fixture was already seen. Returns whether
// the record was kept.
func (a *Assembler) Add(fixture models.Fixture, rec models.OddsRecord) bool {
	key := fixture.Key()
	if _, dup := a.seen[key]; dup {
		return false
	}
	a.seen[key] = struct{}{}
	a.records = append(a.records, rec)
	return true
}

// Seen reports whether a fixture key was already added.
func (a *Assembler) Seen(fixture models.Fixture) bool {
	_, ok := a.seen[fixture.Key()]
	return ok
}

// Records returns the assembled list in insertion order.
func (a *Assembler) Records() []models.OddsRecord {
	return a.records
}

func (a *Assembler) Len() int {
	return len(a.records)
}
