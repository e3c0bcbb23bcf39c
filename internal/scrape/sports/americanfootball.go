package sports

import (
	"context"
	"strings"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("american football", func() scrape.Strategy { return &americanFootball{} })
}

// Spreads carry market id 26 in the chip tail, totals 14863. Both render as
// inline attribute cells with the active line on a counter chip.
const (
	afSpreadMarker = "_26_"
	afTotalsMarker = "_14863_"
)

type americanFootball struct{}

func (a *americanFootball) Category() models.Category {
	return models.Category{
		Name:    "american football",
		Aliases: []string{"football americano", "nfl"},
		SportID: 10,
	}
}

func (a *americanFootball) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
	view, err := pg.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var out []scrape.Extracted
	for _, card := range view.Cards() {
		fx, ok := cardFixture(card)
		if !ok || fx.Live {
			continue
		}

		rec := models.OddsRecord{Teams: fx.Teams()}
		rec.Odds.One, rec.Odds.Two = moneyline(card, fx.Teams())

		for _, cell := range card.AttrCells() {
			a.readCell(cell, &rec.Odds)
		}

		out = append(out, scrape.Extracted{Fixture: fx, Record: rec})
	}
	return out, nil
}

// readCell stores one inline cell: the spread pair as 1/2, the totals pair
// as over/under. Tails ending _1/_2 are preferred, DOM order covers chips
// without a usable tail.
func (a *americanFootball) readCell(cell scrape.AttrCell, odds *models.MarketSet) {
	if cell.Line == "" || len(cell.Chips) == 0 {
		return
	}
	line := canonLine(cell.Line)

	switch {
	case cellHasMarker(cell, afSpreadMarker):
		one := chipByMarker(cell.Chips, afSpreadMarker, "_1")
		two := chipByMarker(cell.Chips, afSpreadMarker, "_2")
		if one == nil {
			one = chipAt(cell.Chips, 0)
		}
		if two == nil {
			two = chipAt(cell.Chips, 1)
		}
		if one != nil || two != nil {
			odds.SetHandicap(line, models.TwoWayNode{One: one, Two: two})
		}
	case cellHasMarker(cell, afTotalsMarker):
		over := chipByMarker(cell.Chips, afTotalsMarker, "_1")
		under := chipByMarker(cell.Chips, afTotalsMarker, "_2")
		if over == nil {
			over = chipAt(cell.Chips, 0)
		}
		if under == nil {
			under = chipAt(cell.Chips, 1)
		}
		if over != nil || under != nil {
			odds.SetOverUnder(line, models.OverUnderNode{Over: over, Under: under})
		}
	}
}

func cellHasMarker(cell scrape.AttrCell, marker string) bool {
	for _, c := range cell.Chips {
		if strings.Contains(c.Tail, marker) {
			return true
		}
	}
	return false
}
