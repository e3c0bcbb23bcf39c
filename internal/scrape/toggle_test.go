package scrape

import (
	"context"
	"testing"
)

func TestNextToggleAction(t *testing.T) {
	tests := []struct {
		name     string
		observed bool
		desired  bool
		attempt  int
		want     ToggleAction
	}{
		{"already matching", true, true, 0, ActionNone},
		{"matching after attempts", false, false, 5, ActionNone},
		{"first mismatch goes native", false, true, 0, ActionNative},
		{"second mismatch goes native", false, true, 1, ActionNative},
		{"third mismatch injects", false, true, 2, ActionInject},
		{"later mismatches keep injecting", true, false, 4, ActionInject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextToggleAction(tt.observed, tt.desired, tt.attempt); got != tt.want {
				t.Errorf("NextToggleAction(%v, %v, %d) = %v, want %v",
					tt.observed, tt.desired, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestReconcileToggleNativePath(t *testing.T) {
	d := &fakeDriver{checked: false}

	outcome, err := ReconcileToggle(context.Background(), d, "input", 0, true, 6)
	if err != nil {
		t.Fatalf("ReconcileToggle() error = %v", err)
	}
	if outcome != Reconciled {
		t.Fatalf("outcome = %v, want Reconciled", outcome)
	}
	if d.nativeClicks != 1 {
		t.Errorf("nativeClicks = %d, want 1", d.nativeClicks)
	}
	if d.injects != 0 {
		t.Errorf("injects = %d, want 0", d.injects)
	}
	if !d.checked {
		t.Errorf("checkbox not checked")
	}
}

func TestReconcileToggleIdempotent(t *testing.T) {
	d := &fakeDriver{checked: false}
	ctx := context.Background()

	if outcome, _ := ReconcileToggle(ctx, d, "input", 0, true, 6); outcome != Reconciled {
		t.Fatalf("first call outcome = %v", outcome)
	}
	clicksAfterFirst := d.nativeClicks

	if outcome, _ := ReconcileToggle(ctx, d, "input", 0, true, 6); outcome != Reconciled {
		t.Fatalf("second call outcome = %v", outcome)
	}
	if d.nativeClicks != clicksAfterFirst {
		t.Errorf("second call toggled natively: clicks %d -> %d", clicksAfterFirst, d.nativeClicks)
	}
	if d.injects != 0 {
		t.Errorf("second call injected: %d", d.injects)
	}
}

func TestReconcileToggleEscapeHatch(t *testing.T) {
	d := &fakeDriver{checked: false, nativeBroken: true}

	outcome, err := ReconcileToggle(context.Background(), d, "input", 0, true, 6)
	if err != nil {
		t.Fatalf("ReconcileToggle() error = %v", err)
	}
	if outcome != Reconciled {
		t.Fatalf("outcome = %v, want Reconciled via injection", outcome)
	}
	if d.nativeClicks != nativeAttempts {
		t.Errorf("nativeClicks = %d, want %d before falling back", d.nativeClicks, nativeAttempts)
	}
	if d.injects == 0 {
		t.Errorf("injection never attempted")
	}
	if !d.checked {
		t.Errorf("checkbox not checked after injection")
	}
}

func TestReconcileToggleUnreachable(t *testing.T) {
	d := &fakeDriver{checked: false, nativeBroken: true, injectBroken: true}

	outcome, err := ReconcileToggle(context.Background(), d, "input", 0, true, 4)
	if err != nil {
		t.Fatalf("ReconcileToggle() error = %v", err)
	}
	if outcome != Unreachable {
		t.Errorf("outcome = %v, want Unreachable", outcome)
	}
}

func TestReconcileToggleSymmetry(t *testing.T) {
	d := &fakeDriver{checked: false}
	ctx := context.Background()

	before := d.checked
	if outcome, _ := ReconcileToggle(ctx, d, "input", 0, true, 6); outcome != Reconciled {
		t.Fatalf("on pass failed")
	}
	if outcome, _ := ReconcileToggle(ctx, d, "input", 0, false, 6); outcome != Reconciled {
		t.Fatalf("off pass failed")
	}
	if d.checked != before {
		t.Errorf("state after off pass = %v, want pre-extraction state %v", d.checked, before)
	}
}
