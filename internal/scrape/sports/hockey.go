package sports

import (
	"context"
	"regexp"
	"strings"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("ice hockey", func() scrape.Strategy { return &hockey{} })
}

// Hockey totals lines sit roughly between 2.5 and 12.5; counter chips
// outside that band belong to other selectors and are never opened.
const (
	hockeyTotalsMin = 2
	hockeyTotalsMax = 15
)

// The HANDICAP header tab mounts titled blocks like "1X2 HANDICAP (-1)".
var (
	hockeyHandicapTitleRe       = regexp.MustCompile(`(?i)HANDICAP\s*\(\s*([+\-]?\d+)\s*\)`)
	hockeyHandicapTabCandidates = []string{
		"button[data-qa='cluster-filter-215']",
	}
)

type hockey struct{}

func (h *hockey) Category() models.Category {
	return models.Category{
		Name:     "ice hockey",
		Aliases:  []string{"hockey su ghiaccio", "hockey"},
		SportID:  6,
		ThreeWay: true,
	}
}

func (h *hockey) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
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

		// One totals dropdown per card is enough; the handler stops the
		// sweep after the first chip in the totals band.
		err := sweepDropdowns(ctx, pg, card, func(chip string) bool {
			v, ok := parseLine(chip)
			return ok && v >= hockeyTotalsMin && v <= hockeyTotalsMax
		}, func(chip string, rows []scrape.DropdownRow) bool {
			for _, row := range rows {
				rec.Odds.SetOverUnder(canonLine(row.Line), models.OverUnderNode{
					Over:  models.ParseDecimalPtr(row.Col1),
					Under: models.ParseDecimalPtr(row.Col2),
				})
			}
			return true
		})
		if err != nil {
			return nil, err
		}

		index[fx.Key()] = len(out)
		out = append(out, scrape.Extracted{Fixture: fx, Record: rec})
	}

	h.fillHandicapLines(ctx, pg, index, out)
	return out, nil
}

// fillHandicapLines activates the HANDICAP header tab and reads the titled
// 1X2 handicap blocks per fixture. The draw chip (tail _3) has no slot in
// the two-way handicap shape and is dropped.
func (h *hockey) fillHandicapLines(ctx context.Context, pg *scrape.Page, index map[string]int, out []scrape.Extracted) {
	if len(out) == 0 || !pg.ClickFirstPresent(ctx, hockeyHandicapTabCandidates) {
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

		for _, block := range card.AttrBlocks() {
			if !strings.Contains(strings.ToUpper(block.Title), "HANDICAP") {
				continue
			}
			m := hockeyHandicapTitleRe.FindStringSubmatch(block.Title)
			if m == nil {
				continue
			}
			one := chipBySuffix(block.Chips, "_1")
			two := chipBySuffix(block.Chips, "_2")
			if one == nil && two == nil {
				continue
			}
			out[i].Record.Odds.SetHandicap(m[1], models.TwoWayNode{One: one, Two: two})
		}
	}
}
