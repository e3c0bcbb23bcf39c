package sports

import (
	"context"
	"regexp"
	"strings"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("rugby", func() scrape.Strategy { return &rugby{} })
}

// The UNDER/OVER header tab (classe esito 10055) mounts titled blocks like
// "U/O 48.5" with an over chip ending _1 and an under chip ending _2.
var (
	rugbyTotalsTitleRe       = regexp.MustCompile(`(?i)U/O\s*([0-9]+(?:\.[0-9]+)?)`)
	rugbyTotalsTabCandidates = []string{
		"button[data-qa='classeEsito_10055']",
	}
)

type rugby struct{}

func (r *rugby) Category() models.Category {
	return models.Category{Name: "rugby", SportID: 12, ThreeWay: true}
}

func (r *rugby) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
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
		rec.Odds.One, rec.Odds.X, rec.Odds.Two = r.readMatchOdds(card, fx.Teams())

		index[fx.Key()] = len(out)
		out = append(out, scrape.Extracted{Fixture: fx, Record: rec})
	}

	r.fillTotals(ctx, pg, index, out)
	return out, nil
}

// readMatchOdds reads the rugby 1-X-2: chip tails end _1 (home), _2 (draw),
// _3 (away), positional display order as the fallback.
func (r *rugby) readMatchOdds(card *scrape.Card, teams string) (one, x, two *float64) {
	group := card.GroupChips(0)
	if len(group) == 0 {
		group = card.AllChips()
	}
	one = chipBySuffix(group, "_1")
	x = chipBySuffix(group, "_2")
	two = chipBySuffix(group, "_3")
	if one != nil && x != nil && two != nil {
		return one, x, two
	}
	if one == nil {
		one = chipAt(group, 0)
	}
	if x == nil {
		x = chipAt(group, 1)
	}
	if two == nil {
		two = chipAt(group, 2)
	}
	return one, x, two
}

// fillTotals activates the UNDER/OVER header tab and reads the titled U/O
// blocks, keyed by the line in the block title.
func (r *rugby) fillTotals(ctx context.Context, pg *scrape.Page, index map[string]int, out []scrape.Extracted) {
	if len(out) == 0 || !pg.ClickFirstPresent(ctx, rugbyTotalsTabCandidates) {
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
			if !strings.Contains(strings.ToUpper(block.Title), "U/O") {
				continue
			}
			m := rugbyTotalsTitleRe.FindStringSubmatch(canonLine(block.Title))
			if m == nil {
				continue
			}
			over := chipByMarker(block.Chips, "_10055_", "_1")
			under := chipByMarker(block.Chips, "_10055_", "_2")
			if over == nil && under == nil {
				continue
			}
			out[i].Record.Odds.SetOverUnder(m[1], models.OverUnderNode{Over: over, Under: under})
		}
	}
}
