// Package normalize converts per-category odds records into the canonical
// wire schema consumed by the downstream collector. Payload building is a
// pure function of (record, category, timestamp).
package normalize

import (
	"strings"
	"time"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
)

// Bookmaker is stamped on every payload.
const Bookmaker = "Sisal"

// Payload is the wire-ready record. Odds is kept as a generic tree because
// its shape depends on the category: enriched (1/2, optional X, O/U,
// handicap) or soccer (1/X/2, GG/NG, O/U). Absent markets are omitted keys.
type Payload struct {
	Sport        string         `json:"sport"`
	Teams        string         `json:"Teams"`
	Bookmaker    string         `json:"Bookmaker"`
	Odds         map[string]any `json:"Odds"`
	ScrapedAtUTC string         `json:"scraped_at_utc"`
}

// enriched categories always use the non-soccer schema even without a
// handicap group on the record.
var enrichedSports = map[string]string{
	"basket":            "basket",
	"tennis":            "tennis",
	"baseball":          "baseball",
	"american football": "americanfootball",
	"ice hockey":        "hockey",
	"rugby":             "rugby",
}

// three-way categories among the enriched set keep X when it was read.
var threeWayEnriched = map[string]bool{
	"ice hockey": true,
	"rugby":      true,
}

// SportLabel maps a category name to the wire sport value. Unknown labels
// default to soccer, matching the collector's expectations.
func SportLabel(category string) string {
	norm := strings.ToLower(strings.TrimSpace(category))
	if s, ok := enrichedSports[norm]; ok {
		return s
	}
	return "soccer"
}

// Build creates the canonical payload for one record. The enriched schema is
// used when the category is non-soccer or when the record carries a handicap
// group; otherwise the soccer schema applies. Every absent field is omitted.
func Build(rec models.OddsRecord, category string, now time.Time) Payload {
	norm := strings.ToLower(strings.TrimSpace(category))
	_, enriched := enrichedSports[norm]

	ou := overUnderTree(rec.Odds.OverUnder)

	odds := make(map[string]any)
	if enriched || rec.Odds.HasHandicap() {
		if rec.Odds.One != nil {
			odds["1"] = *rec.Odds.One
		}
		if rec.Odds.Two != nil {
			odds["2"] = *rec.Odds.Two
		}
		if threeWayEnriched[norm] && rec.Odds.X != nil {
			odds["X"] = *rec.Odds.X
		}
		if len(ou) > 0 {
			odds["O/U"] = ou
		}
		if hcap := handicapTree(rec.Odds.Handicap); len(hcap) > 0 {
			odds["1 2 + Handicap"] = hcap
		}
	} else {
		if rec.Odds.One != nil {
			odds["1"] = *rec.Odds.One
		}
		if rec.Odds.X != nil {
			odds["X"] = *rec.Odds.X
		}
		if rec.Odds.Two != nil {
			odds["2"] = *rec.Odds.Two
		}
		if rec.Odds.GG != nil {
			odds["GG"] = *rec.Odds.GG
		}
		if rec.Odds.NG != nil {
			odds["NG"] = *rec.Odds.NG
		}
		if len(ou) > 0 {
			odds["O/U"] = ou
		}
	}

	return Payload{
		Sport:        SportLabel(category),
		Teams:        rec.Teams,
		Bookmaker:    Bookmaker,
		Odds:         odds,
		ScrapedAtUTC: now.UTC().Format(time.RFC3339Nano),
	}
}

func overUnderTree(lines map[string]models.OverUnderNode) map[string]any {
	out := make(map[string]any, len(lines))
	for line, node := range lines {
		inner := make(map[string]any, 2)
		if node.Under != nil {
			inner["U"] = *node.Under
		}
		if node.Over != nil {
			inner["O"] = *node.Over
		}
		if len(inner) > 0 {
			out[line] = inner
		}
	}
	return out
}

func handicapTree(lines map[string]models.TwoWayNode) map[string]any {
	out := make(map[string]any, len(lines))
	for line, node := range lines {
		inner := make(map[string]any, 2)
		if node.One != nil {
			inner["1"] = *node.One
		}
		if node.Two != nil {
			inner["2"] = *node.Two
		}
		if len(inner) > 0 {
			out[line] = inner
		}
	}
	return out
}
