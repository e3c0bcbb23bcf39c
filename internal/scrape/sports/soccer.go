package sports

import (
	"context"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("soccer", func() scrape.Strategy { return &soccer{} })
}

// goalTabCandidates open the GOAL subcategory, which mounts the GG/NG
// market (classe esito 18) on every card.
var goalTabCandidates = []string{
	"button[data-qa='classeEsito_1000002']",
	".filters-subcategory-theme button[data-qa='classeEsito_1000002']",
}

type soccer struct{}

func (s *soccer) Category() models.Category {
	return models.Category{
		Name:     "soccer",
		Aliases:  []string{"calcio", "football"},
		ThreeWay: true,
	}
}

// Extract reads 1X2 and the under/over pair from the default view, then
// switches to the GOAL tab once and backfills GG/NG per fixture.
func (s *soccer) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
	view, err := pg.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var out []scrape.Extracted
	index := make(map[string]int)
	for _, card := range view.Cards() {
		fx, ok := cardFixture(card)
		if !ok || fx.Live {
			continue
		}

		rec := models.OddsRecord{Teams: fx.Teams()}
		rec.Odds.One, rec.Odds.X, rec.Odds.Two = threeWay(card, fx.Teams())
		s.readOverUnder(card, &rec.Odds)

		index[fx.Key()] = len(out)
		out = append(out, scrape.Extracted{Fixture: fx, Record: rec})
	}

	s.fillGoalMarkets(ctx, pg, index, out)
	return out, nil
}

// readOverUnder takes the third market group as the U/O pair. The active
// line comes from the card's counter chip; 2.5 is the site default when no
// chip is rendered.
func (s *soccer) readOverUnder(card *scrape.Card, odds *models.MarketSet) {
	chips := card.GroupChips(2)
	if len(chips) < 2 {
		return
	}
	under := chipAt(chips, 0)
	over := chipAt(chips, 1)
	if under == nil && over == nil {
		return
	}

	line := "2.5"
	for _, chip := range card.CounterChips() {
		if v, ok := parseLine(chip); ok && v > 0 && v < 10 {
			line = canonLine(chip)
			break
		}
	}
	odds.SetOverUnder(line, models.OverUnderNode{Under: under, Over: over})
}

// fillGoalMarkets flips the subcategory bar to GOAL and reads GG (tail
// _18_0_1) and NG (tail _18_0_2) for every fixture already extracted.
// Best-effort: a missing tab leaves the records as they are.
func (s *soccer) fillGoalMarkets(ctx context.Context, pg *scrape.Page, index map[string]int, out []scrape.Extracted) {
	if len(out) == 0 || !pg.ClickFirstPresent(ctx, goalTabCandidates) {
		return
	}
	view, err := pg.Snapshot(ctx)
	if err != nil {
		return
	}

	for _, card := range view.Cards() {
		fx, ok := cardFixture(card)
		if !ok {
			continue
		}
		i, ok := index[fx.Key()]
		if !ok {
			continue
		}
		chips := card.AllChips()
		if gg := chipByMarker(chips, "_18_0_1", ""); gg != nil {
			out[i].Record.Odds.GG = gg
		}
		if ng := chipByMarker(chips, "_18_0_2", ""); ng != nil {
			out[i].Record.Odds.NG = ng
		}
	}
}
