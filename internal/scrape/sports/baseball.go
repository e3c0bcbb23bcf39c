package sports

import (
	"context"
	"strings"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
	"github.com/hh24tech/sisal-sync/internal/scrape"
)

func init() {
	scrape.Register("baseball", func() scrape.Strategy { return &baseball{} })
}

type baseball struct{}

func (b *baseball) Category() models.Category {
	return models.Category{Name: "baseball", SportID: 45}
}

// Extract reads the 1-2 moneyline plus both dropdown selectors. The panels
// are not labelled, so the first row decides the market: a signed line
// (+1.5 / -1.5) is the run line, an unsigned one (7.5, 8.5) is totals.
func (b *baseball) Extract(ctx context.Context, pg *scrape.Page) ([]scrape.Extracted, error) {
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
			if len(rows) == 0 {
				return false
			}
			runLine := strings.ContainsAny(rows[0].Line, "+-")
			for _, row := range rows {
				if runLine {
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
