// Package sports holds the per-category extraction strategies. Each one
// registers itself with the scrape registry from init; importing the
// package for side effects is enough to make every category available.
package sports

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

// chipBySuffix returns the price of the first chip whose data-qa tail ends
// with suffix.
func chipBySuffix(chips []scrape.Chip, suffix string) *float64 {
	for _, c := range chips {
		if c.Tail == "" || !strings.HasSuffix(c.Tail, suffix) {
			continue
		}
		if v, ok := models.ParseDecimal(c.Text); ok {
			return &v
		}
	}
	return nil
}

// chipByMarker returns the price of the first chip whose tail contains
// marker. An empty suffix matches any tail end.
func chipByMarker(chips []scrape.Chip, marker, suffix string) *float64 {
	for _, c := range chips {
		if c.Tail == "" || !strings.Contains(c.Tail, marker) {
			continue
		}
		if suffix != "" && !strings.HasSuffix(c.Tail, suffix) {
			continue
		}
		if v, ok := models.ParseDecimal(c.Text); ok {
			return &v
		}
	}
	return nil
}

// chipAt parses the i-th chip of the slice.
func chipAt(chips []scrape.Chip, i int) *float64 {
	if i < 0 || i >= len(chips) {
		return nil
	}
	if v, ok := models.ParseDecimal(chips[i].Text); ok {
		return &v
	}
	return nil
}

// canonLine normalizes a displayed line ("15,5", " -1.5 ") to its canonical
// point-decimal key.
func canonLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

// parseLine parses a line value. Unlike price parsing it accepts negative
// and zero values (handicap lines).
func parseLine(s string) (float64, bool) {
	v, err := strconv.ParseFloat(canonLine(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// moneyline reads the two-outcome main market: data-qa tails _0_1/_0_2
// first, then the first market group in DOM order for whatever is still
// missing.
func moneyline(card *scrape.Card, teams string) (one, two *float64) {
	chips := card.AllChips()
	one = chipBySuffix(chips, "_0_1")
	two = chipBySuffix(chips, "_0_2")
	if one != nil && two != nil {
		return one, two
	}

	group := card.GroupChips(0)
	fell := false
	if one == nil {
		if one = chipAt(group, 0); one != nil {
			fell = true
		}
	}
	if two == nil {
		if two = chipAt(group, 1); two != nil {
			fell = true
		}
	}
	if fell {
		slog.Warn("Moneyline read by chip position", "teams", teams)
	}
	return one, two
}

// threeWay reads the 1-X-2 main market: tails _0_1 (home), _0_2 (draw),
// _0_3 (away), then the first market group positionally in display order
// 1, X, 2.
func threeWay(card *scrape.Card, teams string) (one, x, two *float64) {
	chips := card.AllChips()
	one = chipBySuffix(chips, "_0_1")
	x = chipBySuffix(chips, "_0_2")
	two = chipBySuffix(chips, "_0_3")
	if one != nil && x != nil && two != nil {
		return one, x, two
	}

	group := card.GroupChips(0)
	if len(group) < 3 {
		return one, x, two
	}
	fell := false
	if one == nil {
		if one = chipAt(group, 0); one != nil {
			fell = true
		}
	}
	if x == nil {
		if x = chipAt(group, 1); x != nil {
			fell = true
		}
	}
	if two == nil {
		if two = chipAt(group, 2); two != nil {
			fell = true
		}
	}
	if fell {
		slog.Warn("1X2 read by chip position", "teams", teams)
	}
	return one, x, two
}

// sweepDropdowns opens each counter chip on the card in turn, hands the
// captured panel rows to handle and closes the panel again. keep filters
// chips by their displayed text before any click happens.
func sweepDropdowns(ctx context.Context, pg *scrape.Page, card *scrape.Card,
	keep func(chip string) bool, handle func(chip string, rows []scrape.DropdownRow) bool) error {
	for i, chip := range card.CounterChips() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if keep != nil && !keep(chip) {
			continue
		}
		if err := pg.ClickInCard(ctx, card.Index, scrape.SelCounterButton, i); err != nil {
			slog.Debug("Counter chip click failed", "card", card.Index, "chip", chip, "error", err)
			continue
		}
		rows, err := pg.CaptureDropdown(ctx)
		if err != nil {
			slog.Debug("Dropdown capture failed", "card", card.Index, "chip", chip, "error", err)
			pg.CloseDropdown(ctx)
			continue
		}
		done := handle(chip, rows)
		pg.CloseDropdown(ctx)
		if done {
			return nil
		}
	}
	return nil
}

// cardFixture extracts the contestants of a card. Live cards and cards with
// fewer than two names are skipped by every strategy.
func cardFixture(card *scrape.Card) (models.Fixture, bool) {
	home, away, ok := card.Teams()
	if !ok {
		return models.Fixture{}, false
	}
	return models.Fixture{Home: home, Away: away, Live: card.IsLive()}, true
}
