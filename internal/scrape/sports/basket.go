package sports

import (
	"context"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("basket", func() scrape.Strategy { return &basket{} })
}

// Counter chips carry the currently selected line, which tells the two
// selectors apart: points handicap lines stay well under 100, totals lines
// start around 130.
const basketTotalsThreshold = 100

type basket struct{}

func (b *basket) Category() models.Category {
	return models.Category{
		Name:    "basket",
		Aliases: []string{"pallacanestro", "basketball"},
	}
}

func (b *basket) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
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

		err := sweepDropdowns(ctx, pg, card, nil, func(chip string, rows []scrape.DropdownRow) bool {
			v, ok := parseLine(chip)
			if !ok {
				return false
			}
			for _, row := range rows {
				if v < basketTotalsThreshold {
					rec.Odds.SetHandicap(canonLine(row.Line), models.TwoWayNode{
						One: models.ParseDecimalPtr(row.Col1),
						Two: models.ParseDecimalPtr(row.Col2),
					})
				} else {
					rec.Odds.SetOverUnder(canonLine(row.Line), models.OverUnderNode{
						Over:  models.ParseDecimalPtr(row.Col1),
						Under: models.ParseDecimalPtr(row.Col2),
					})
				}
			}
			return false
		})
		if err != nil {
			return nil, err
		}

		out = append(out, scrape.Extracted{Fixture: fx, Record: rec})
	}
	return out, nil
}
