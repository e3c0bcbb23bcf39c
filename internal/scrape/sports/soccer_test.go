package sports

import (
	"context"
	"testing"
)

const soccerPageHTML = `<body>
<div class="grid_mg-row-wrapper__usTh4">
  <a class="regulator_description__SY8Vw" href="#"><span>Inter</span></a>
  <a class="regulator_description__SY8Vw" href="#"><span>Milan</span></a>
  <div class="grid_mg-market__gVuGf">
    <button class="chips-commons" data-qa="esito_1_0_1"><span>2,10</span></button>
    <button class="chips-commons" data-qa="esito_1_0_2"><span>3,20</span></button>
    <button class="chips-commons" data-qa="esito_1_0_3"><span>3,40</span></button>
  </div>
  <div class="grid_mg-market__gVuGf">
    <button class="chips-commons" data-qa="esito_5_0_1"><span>1,30</span></button>
    <button class="chips-commons" data-qa="esito_5_0_2"><span>1,65</span></button>
    <button class="chips-commons" data-qa="esito_5_0_3"><span>1,40</span></button>
  </div>
  <div class="grid_mg-market__gVuGf">
    <button class="chips-commons" data-qa="esito_7_0_1"><span>1,85</span></button>
    <button class="chips-commons" data-qa="esito_7_0_2"><span>1,95</span></button>
  </div>
  <button class="counter-drop-chip-default-theme"><span>2,5</span></button>
</div>
<div class="grid_mg-row-wrapper__usTh4">
  <span class="badge-live">LIVE</span>
  <a class="regulator_description__SY8Vw" href="#"><span>Roma</span></a>
  <a class="regulator_description__SY8Vw" href="#"><span>Lazio</span></a>
</div>
</body>`

const soccerGoalHTML = `<body>
<div class="grid_mg-row-wrapper__usTh4">
  <a class="regulator_description__SY8Vw" href="#"><span>Inter</span></a>
  <a class="regulator_description__SY8Vw" href="#"><span>Milan</span></a>
  <div class="grid_mg-market__gVuGf">
    <button class="chips-commons" data-qa="esito_18_0_1"><span>1,80</span></button>
    <button class="chips-commons" data-qa="esito_18_0_2"><span>1,90</span></button>
  </div>
</div>
</body>`

func TestSoccerExtract(t *testing.T) {
	d := &fakeDriver{
		pageHTML: soccerPageHTML,
		tabSel:   "button[data-qa='classeEsito_1000002']",
		tabHTML:  soccerGoalHTML,
	}

	out, err := (&soccer{}).Extract(context.Background(), newPage(d))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("extracted = %d, want 1 (live card skipped)", len(out))
	}

	rec := out[0].Record
	if rec.Teams != "Inter vs Milan" {
		t.Errorf("teams = %q", rec.Teams)
	}
	if !wantPrice(rec.Odds.One, 2.10) || !wantPrice(rec.Odds.X, 3.20) || !wantPrice(rec.Odds.Two, 3.40) {
		t.Errorf("1X2 = %v %v %v", rec.Odds.One, rec.Odds.X, rec.Odds.Two)
	}

	ou, ok := rec.Odds.OverUnder["2.5"]
	if !ok {
		t.Fatalf("no O/U at default line, got %v", rec.Odds.OverUnder)
	}
	if !wantPrice(ou.Under, 1.85) || !wantPrice(ou.Over, 1.95) {
		t.Errorf("O/U 2.5 = %v/%v", ou.Under, ou.Over)
	}

	if !wantPrice(rec.Odds.GG, 1.80) || !wantPrice(rec.Odds.NG, 1.90) {
		t.Errorf("GG/NG = %v/%v", rec.Odds.GG, rec.Odds.NG)
	}
}

func TestSoccerExtractNoGoalTab(t *testing.T) {
	d := &fakeDriver{pageHTML: soccerPageHTML}

	out, err := (&soccer{}).Extract(context.Background(), newPage(d))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("extracted = %d, want 1", len(out))
	}
	if out[0].Record.Odds.GG != nil || out[0].Record.Odds.NG != nil {
		t.Errorf("GG/NG set without a goal tab: %v/%v", out[0].Record.Odds.GG, out[0].Record.Odds.NG)
	}
}
