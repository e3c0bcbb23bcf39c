package sports

import (
	"context"
	"testing"
)

const hockeyPageHTML = `<body>
<div class="grid_mg-row-wrapper__usTh4">
  <a class="regulator_description__SY8Vw" href="#"><span>Bolzano</span></a>
  <a class="regulator_description__SY8Vw" href="#"><span>Asiago</span></a>
  <div class="grid_mg-market__gVuGf">
    <button class="chips-commons" data-qa="esito_6_0_1"><span>1,85</span></button>
    <button class="chips-commons" data-qa="esito_6_0_2"><span>4,10</span></button>
    <button class="chips-commons" data-qa="esito_6_0_3"><span>3,05</span></button>
  </div>
  <button class="counter-drop-chip-default-theme"><span>215</span></button>
  <button class="counter-drop-chip-default-theme"><span>5,5</span></button>
</div>
</body>`

const hockeyHandicapHTML = `<body>
<div class="grid_mg-row-wrapper__usTh4">
  <a class="regulator_description__SY8Vw" href="#"><span>Bolzano</span></a>
  <a class="regulator_description__SY8Vw" href="#"><span>Asiago</span></a>
  <div class="template_mg-market-attribute__Y16SU">
    <div class="mg-market-attribute-desc"><span class="tw-fr-font-primary">1X2 HANDICAP (-1)</span></div>
    <button class="chips-commons" data-qa="esito_215_100_1"><span>2,40</span></button>
    <button class="chips-commons" data-qa="esito_215_100_2"><span>2,10</span></button>
    <button class="chips-commons" data-qa="esito_215_100_3"><span>6,75</span></button>
  </div>
  <div class="template_mg-market-attribute__Y16SU">
    <div class="mg-market-attribute-desc"><span class="tw-fr-font-primary">1X2 HANDICAP (1)</span></div>
    <button class="chips-commons" data-qa="esito_215_101_1"><span>1,33</span></button>
    <button class="chips-commons" data-qa="esito_215_101_2"><span>4,25</span></button>
  </div>
</div>
</body>`

func TestHockeyExtract(t *testing.T) {
	d := &fakeDriver{
		pageHTML: hockeyPageHTML,
		tabSel:   "button[data-qa='cluster-filter-215']",
		tabHTML:  hockeyHandicapHTML,
		panels: []string{
			dropdownPanel(
				[3]string{"5.5", "1,88", "1,84"},
				[3]string{"6.5", "2,35", "1,55"},
			),
		},
	}

	out, err := (&hockey{}).Extract(context.Background(), newPage(d))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("extracted = %d, want 1", len(out))
	}

	rec := out[0].Record
	if !wantPrice(rec.Odds.One, 1.85) || !wantPrice(rec.Odds.X, 4.10) || !wantPrice(rec.Odds.Two, 3.05) {
		t.Errorf("1X2 = %v %v %v", rec.Odds.One, rec.Odds.X, rec.Odds.Two)
	}

	// Only the chip inside the totals band opens a dropdown; 215 is a
	// different selector and must stay closed.
	if d.panelIdx != 1 {
		t.Errorf("panels opened = %d, want 1", d.panelIdx)
	}
	if len(rec.Odds.OverUnder) != 2 {
		t.Fatalf("totals lines = %d, want 2: %v", len(rec.Odds.OverUnder), rec.Odds.OverUnder)
	}
	ou := rec.Odds.OverUnder["6.5"]
	if !wantPrice(ou.Over, 2.35) || !wantPrice(ou.Under, 1.55) {
		t.Errorf("totals 6.5 = %v/%v", ou.Over, ou.Under)
	}

	// Header handicap blocks keyed by the line in the title; the draw
	// chip has no slot and is dropped.
	if len(rec.Odds.Handicap) != 2 {
		t.Fatalf("handicap lines = %d, want 2: %v", len(rec.Odds.Handicap), rec.Odds.Handicap)
	}
	hc := rec.Odds.Handicap["-1"]
	if !wantPrice(hc.One, 2.40) || !wantPrice(hc.Two, 2.10) {
		t.Errorf("handicap -1 = %v/%v", hc.One, hc.Two)
	}
	hc = rec.Odds.Handicap["1"]
	if !wantPrice(hc.One, 1.33) || !wantPrice(hc.Two, 4.25) {
		t.Errorf("handicap 1 = %v/%v", hc.One, hc.Two)
	}
}
