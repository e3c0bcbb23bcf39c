package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/hh24tech/sisal-sync/internal/browser"
)

const stableRoundsNeeded = 2

// Exhaust drives a virtualized list until its visible-item count stops
// growing: scroll, settle, recount, and stop once the count is stable for
// two consecutive rounds or maxRounds is reached. A zero count keeps
// nudging, the list may not have begun rendering yet. The returned count is
// a fixed point under further scrolling, not a guarantee that every item is
// mounted.
func Exhaust(ctx context.Context, d browser.Driver, listSelector string, maxRounds int, settle time.Duration) (int, error) {
	if maxRounds <= 0 {
		maxRounds = 30
	}
	if settle <= 0 {
		settle = 200 * time.Millisecond
	}

	prev := -1
	stable := 0
	count := 0

	for round := 0; round < maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		n, err := d.Count(ctx, listSelector)
		if err != nil {
			return count, err
		}
		count = n

		if count > 0 && count == prev {
			stable++
			if stable >= stableRoundsNeeded {
				slog.Debug("List exhausted", "selector", listSelector, "count", count, "rounds", round+1)
				return count, nil
			}
		} else {
			stable = 0
		}
		prev = count

		if err := d.ScrollBy(ctx, 0, 600); err != nil {
			slog.Debug("Scroll nudge failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case <-time.After(settle):
		}
	}

	slog.Debug("List exhaustion hit round cap", "selector", listSelector, "count", count, "rounds", maxRounds)
	return count, nil
}
