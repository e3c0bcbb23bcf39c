package models

import "testing"

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"plain point", "1.85", 1.85, true},
		{"decimal comma", "1,85", 1.85, true},
		{"surrounding spaces", "  2,50 ", 2.5, true},
		{"integer", "3", 3, true},
		{"empty", "", 0, false},
		{"dash placeholder", "-", 0, false},
		{"zero rejected", "0", 0, false},
		{"negative rejected", "-1.5", 0, false},
		{"garbage", "n/a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDecimal(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDecimal(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDecimal(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFixtureKeyCaseInsensitive(t *testing.T) {
	a := Fixture{Home: "Inter", Away: "Milan"}
	b := Fixture{Home: "INTER", Away: "milan"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if a.Teams() != "Inter vs Milan" {
		t.Errorf("Teams() = %q, want %q", a.Teams(), "Inter vs Milan")
	}
}

func TestCategoryMatches(t *testing.T) {
	soccer := Category{Name: "soccer", Aliases: []string{"calcio", "football"}, ThreeWay: true}

	tests := []struct {
		label string
		want  bool
	}{
		{"Calcio", true},
		{"  FOOTBALL ", true},
		{"soccer", true},
		{"Tennis", false},
		{"Quote Top", false},
	}
	for _, tt := range tests {
		if got := soccer.Matches(tt.label); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestMarketSetSparseSetters(t *testing.T) {
	var m MarketSet

	m.SetOverUnder("2.5", OverUnderNode{})
	if m.OverUnder != nil {
		t.Errorf("empty O/U node must not be stored")
	}

	m.SetOverUnder("2.5", OverUnderNode{Over: Float(1.85)})
	if _, ok := m.OverUnder["2.5"]; !ok {
		t.Fatalf("O/U line 2.5 missing")
	}

	m.SetHandicap("15.5", TwoWayNode{})
	if m.HasHandicap() {
		t.Errorf("empty handicap node must not be stored")
	}
	m.SetHandicap("15.5", TwoWayNode{One: Float(1.9), Two: Float(1.9)})
	if !m.HasHandicap() {
		t.Errorf("handicap line 15.5 missing")
	}
}
