package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hh24tech/sisal-sync/internal/browser"
)

// ToggleAction is the next move the reconciler should make.
type ToggleAction int

const (
	// ActionNone: observed state already matches, stop.
	ActionNone ToggleAction = iota
	// ActionNative: click the control and re-check.
	ActionNative
	// ActionInject: set the control's state directly and fire synthetic
	// input/change events.
	ActionInject
)

// nativeAttempts is how many native clicks are tried before falling back to
// state injection.
const nativeAttempts = 2

// NextToggleAction is the pure step function of the reconciliation state
// machine. attempt is zero-based.
func NextToggleAction(observed, desired bool, attempt int) ToggleAction {
	if observed == desired {
		return ActionNone
	}
	if attempt < nativeAttempts {
		return ActionNative
	}
	return ActionInject
}

// ToggleOutcome reports how reconciliation ended.
type ToggleOutcome int

const (
	Reconciled ToggleOutcome = iota
	Unreachable
)

func (o ToggleOutcome) String() string {
	if o == Reconciled {
		return "reconciled"
	}
	return "unreachable"
}

// ReconcileToggle drives the idx-th checkbox matching sel to the desired
// state with at most maxRetries attempts. Unreachable is a warning for the
// caller, not an error: the run continues with that filter skipped.
func ReconcileToggle(ctx context.Context, d browser.Driver, sel string, idx int, desired bool, maxRetries int) (ToggleOutcome, error) {
	if maxRetries <= 0 {
		maxRetries = 6
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Unreachable, err
		}

		observed, err := readChecked(ctx, d, sel, idx)
		if err != nil {
			slog.Debug("Toggle state read failed", "selector", sel, "index", idx, "error", err)
			time.Sleep(150 * time.Millisecond)
			continue
		}

		switch NextToggleAction(observed, desired, attempt) {
		case ActionNone:
			return Reconciled, nil
		case ActionNative:
			if err := d.ClickNth(ctx, sel, idx); err != nil {
				slog.Debug("Native toggle failed", "selector", sel, "index", idx, "error", err)
			}
		case ActionInject:
			if err := injectChecked(ctx, d, sel, idx, desired); err != nil {
				slog.Debug("Toggle injection failed", "selector", sel, "index", idx, "error", err)
			}
		}

		time.Sleep(150 * time.Millisecond)
	}

	return Unreachable, nil
}

func readChecked(ctx context.Context, d browser.Driver, sel string, idx int) (bool, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%s)[%d];
		if (!el) return null;
		return !!el.checked;
	})()`, strconv.Quote(sel), idx)

	var state *bool
	if err := d.Evaluate(ctx, js, &state); err != nil {
		return false, err
	}
	if state == nil {
		return false, fmt.Errorf("no checkbox %d for selector %q", idx, sel)
	}
	return *state, nil
}

// injectChecked is the escape hatch: set the property and dispatch the
// events React listens for.
func injectChecked(ctx context.Context, d browser.Driver, sel string, idx int, desired bool) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%s)[%d];
		if (!el) return false;
		el.checked = %t;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, strconv.Quote(sel), idx, desired)

	var ok bool
	if err := d.Evaluate(ctx, js, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no checkbox %d for selector %q", idx, sel)
	}
	return nil
}
