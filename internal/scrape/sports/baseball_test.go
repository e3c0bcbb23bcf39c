package sports

import (
	"context"
	"testing"
)

const baseballPageHTML = `<body>
<div class="grid_mg-row-wrapper__usTh4">
  <a class="regulator_description__SY8Vw" href="#"><span>Yankees</span></a>
  <a class="regulator_description__SY8Vw" href="#"><span>Red Sox</span></a>
  <div class="grid_mg-market__gVuGf">
    <button class="chips-commons" data-qa="esito_45_0_1"><span>1,68</span></button>
    <button class="chips-commons" data-qa="esito_45_0_2"><span>2,15</span></button>
  </div>
  <button class="counter-drop-chip-default-theme"><span>-1,5</span></button>
  <button class="counter-drop-chip-default-theme"><span>8,5</span></button>
</div>
</body>`

func TestBaseballExtract(t *testing.T) {
	d := &fakeDriver{
		pageHTML: baseballPageHTML,
		panels: []string{
			dropdownPanel(
				[3]string{"-1.5", "2,30", "1,58"},
				[3]string{"+1.5", "1,40", "2,80"},
			),
			dropdownPanel(
				[3]string{"8.5", "1,95", "1,81"},
			),
		},
	}

	out, err := (&baseball{}).Extract(context.Background(), newPage(d))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("extracted = %d, want 1", len(out))
	}

	rec := out[0].Record
	if !wantPrice(rec.Odds.One, 1.68) || !wantPrice(rec.Odds.Two, 2.15) {
		t.Errorf("moneyline = %v/%v", rec.Odds.One, rec.Odds.Two)
	}

	// Signed first row classifies the panel as the run line.
	if len(rec.Odds.Handicap) != 2 {
		t.Fatalf("run lines = %d, want 2: %v", len(rec.Odds.Handicap), rec.Odds.Handicap)
	}
	hc := rec.Odds.Handicap["+1.5"]
	if !wantPrice(hc.One, 1.40) || !wantPrice(hc.Two, 2.80) {
		t.Errorf("run line +1.5 = %v/%v", hc.One, hc.Two)
	}

	// Unsigned first row classifies the panel as totals.
	ou, ok := rec.Odds.OverUnder["8.5"]
	if !ok {
		t.Fatalf("no totals at 8.5: %v", rec.Odds.OverUnder)
	}
	if !wantPrice(ou.Over, 1.95) || !wantPrice(ou.Under, 1.81) {
		t.Errorf("totals 8.5 = %v/%v", ou.Over, ou.Under)
	}
}
