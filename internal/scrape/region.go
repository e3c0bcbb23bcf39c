package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hh24tech/sisal-sync/internal/browser"
)

// Walker drives the region accordions of one category: expand, reconcile
// league filters, collapse. Only the expanded region mounts its content, so
// the league checkbox selector is global while a region is open.
type Walker struct {
	d             browser.Driver
	sup           *Suppressor
	expandRetries int
	toggleRetries int
}

func NewWalker(d browser.Driver, sup *Suppressor, expandRetries, toggleRetries int) *Walker {
	if expandRetries <= 0 {
		expandRetries = 5
	}
	if toggleRetries <= 0 {
		toggleRetries = 6
	}
	return &Walker{d: d, sup: sup, expandRetries: expandRetries, toggleRetries: toggleRetries}
}

// Regions lists the visible region names in DOM order.
func (w *Walker) Regions(ctx context.Context) ([]string, error) {
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%s).forEach(el => out.push(el.textContent.trim()));
		return out;
	})()`, strconv.Quote(SelRegionNameSpan))

	var names []string
	if err := w.d.Evaluate(ctx, js, &names); err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return names, nil
}

// IsExpanded reports whether region i currently mounts its content.
func (w *Walker) IsExpanded(ctx context.Context, i int) (bool, error) {
	js := fmt.Sprintf(`(() => {
		const regs = document.querySelectorAll(%s);
		if (regs.length <= %d) return null;
		return regs[%d].querySelector(%s) !== null;
	})()`, strconv.Quote(SelAccordion), i, i, strconv.Quote(SelAccordionContent))

	var expanded *bool
	if err := w.d.Evaluate(ctx, js, &expanded); err != nil {
		return false, err
	}
	if expanded == nil {
		return false, fmt.Errorf("no region %d", i)
	}
	return *expanded, nil
}

// Expand opens region i with bounded retries. Between attempts the view is
// nudged (overlay sweep plus a small scroll) since a header may be covered
// or out of the viewport.
func (w *Walker) Expand(ctx context.Context, i int) error {
	for attempt := 0; attempt < w.expandRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.sup.Suppress(ctx)

		expanded, err := w.IsExpanded(ctx, i)
		if err == nil && expanded {
			return nil
		}

		if err := w.d.ClickNth(ctx, SelAccordionHeader, i); err != nil {
			slog.Debug("Region header click failed", "region", i, "attempt", attempt, "error", err)
			_ = w.d.ScrollBy(ctx, 0, 250)
			time.Sleep(300 * time.Millisecond)
			continue
		}
		time.Sleep(400 * time.Millisecond)

		expanded, err = w.IsExpanded(ctx, i)
		if err == nil && expanded {
			return nil
		}
	}
	return fmt.Errorf("region %d did not expand after %d attempts", i, w.expandRetries)
}

// Collapse closes region i if it is open.
func (w *Walker) Collapse(ctx context.Context, i int) error {
	expanded, err := w.IsExpanded(ctx, i)
	if err != nil || !expanded {
		return err
	}
	w.sup.Suppress(ctx)
	if err := w.d.ClickNth(ctx, SelAccordionHeader, i); err != nil {
		return fmt.Errorf("failed to collapse region %d: %w", i, err)
	}
	time.Sleep(250 * time.Millisecond)
	return nil
}

// CheckAll drives every league checkbox of the expanded region to checked.
// Returns how many ended reconciled and how many stayed unreachable.
func (w *Walker) CheckAll(ctx context.Context) (reconciled, unreachable int, err error) {
	return w.reconcileAll(ctx, true)
}

// UncheckAll is the symmetric exit pass restoring pre-extraction filter
// state before the next region.
func (w *Walker) UncheckAll(ctx context.Context) (reconciled, unreachable int, err error) {
	return w.reconcileAll(ctx, false)
}

func (w *Walker) reconcileAll(ctx context.Context, desired bool) (int, int, error) {
	n, err := w.d.Count(ctx, SelLeagueCheckbox)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count league checkboxes: %w", err)
	}

	reconciled, unreachable := 0, 0
	for j := 0; j < n; j++ {
		if err := ctx.Err(); err != nil {
			return reconciled, unreachable, err
		}
		w.sup.Suppress(ctx)

		outcome, err := ReconcileToggle(ctx, w.d, SelLeagueCheckbox, j, desired, w.toggleRetries)
		if err != nil {
			return reconciled, unreachable, err
		}
		if outcome == Reconciled {
			reconciled++
		} else {
			unreachable++
			slog.Warn("League filter unreachable", "index", j, "desired", desired)
		}
	}
	return reconciled, unreachable, nil
}

// LeagueStates returns the checked state of the expanded region's league
// filters, used to verify enter/exit symmetry.
func (w *Walker) LeagueStates(ctx context.Context) ([]bool, error) {
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%s).forEach(el => out.push(!!el.checked));
		return out;
	})()`, strconv.Quote(SelLeagueCheckbox))

	var states []bool
	if err := w.d.Evaluate(ctx, js, &states); err != nil {
		return nil, err
	}
	return states, nil
}
