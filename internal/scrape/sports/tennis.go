package sports

import (
	"context"
	"regexp"
	"strconv"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("tennis", func() scrape.Strategy { return &tennis{} })
}

// Games totals carry classe esito 983, the games handicap tab is 1127. The
// line is embedded in the data-qa in hundredths when no counter chip shows
// it, e.g. _983_2250_1 is the over at 22.5.
var (
	tennisTotalsLineRe   = regexp.MustCompile(`_983_(\d+)_`)
	tennisHandicapLineRe = regexp.MustCompile(`_1127_(-?\d+)_`)

	tennisHandicapTabCandidates = []string{
		"button[data-qa='classeEsito_1127']",
	}
)

type tennis struct{}

func (t *tennis) Category() models.Category {
	return models.Category{Name: "tennis"}
}

func (t *tennis) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
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
		rec.Odds.One, rec.Odds.Two = moneyline(card, fx.Teams())
		t.readGamesTotals(card, &rec.Odds)

		index[fx.Key()] = len(out)
		out = append(out, scrape.Extracted{Fixture: fx, Record: rec})
	}

	t.fillGamesHandicap(ctx, pg, index, out)
	return out, nil
}

// readGamesTotals reads the games under/over pair off the card: over is the
// 983 chip ending _1, under the one ending _2.
func (t *tennis) readGamesTotals(card *scrape.Card, odds *models.MarketSet) {
	chips := card.AllChips()
	over := chipByMarker(chips, "_983_", "_1")
	under := chipByMarker(chips, "_983_", "_2")
	if over == nil && under == nil {
		return
	}

	line := counterOrEmbeddedLine(card, chips, tennisTotalsLineRe)
	if line == "" {
		return
	}
	odds.SetOverUnder(line, models.OverUnderNode{Under: under, Over: over})
}

// fillGamesHandicap flips the header to the games handicap market and
// backfills the 1/2 pair per fixture.
func (t *tennis) fillGamesHandicap(ctx context.Context, pg *scrape.Page, index map[string]int, out []scrape.Extracted) {
	if len(out) == 0 || !pg.ClickFirstPresent(ctx, tennisHandicapTabCandidates) {
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
		one := chipByMarker(chips, "_1127_", "_1")
		two := chipByMarker(chips, "_1127_", "_2")
		if one == nil && two == nil {
			continue
		}
		line := counterOrEmbeddedLine(card, chips, tennisHandicapLineRe)
		if line == "" {
			continue
		}
		out[i].Record.Odds.SetHandicap(line, models.TwoWayNode{One: one, Two: two})
	}
}

// counterOrEmbeddedLine resolves a market line: the card's counter chip when
// one is rendered, otherwise the hundredths value embedded in a chip tail.
func counterOrEmbeddedLine(card *scrape.Card, chips []scrape.Chip, re *regexp.Regexp) string {
	for _, chip := range card.CounterChips() {
		if _, ok := parseLine(chip); ok {
			return canonLine(chip)
		}
	}
	for _, c := range chips {
		m := re.FindStringSubmatch(c.Tail)
		if m == nil {
			continue
		}
		raw, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return strconv.FormatFloat(raw/100, 'f', -1, 64)
	}
	return ""
}
