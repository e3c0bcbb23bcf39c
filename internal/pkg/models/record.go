package models

import (
	"strconv"
	"strings"
)

// OverUnderNode holds the two outcomes of one totals line.
type OverUnderNode struct {
	Under *float64 `json:"U,omitempty"`
	Over  *float64 `json:"O,omitempty"`
}

// TwoWayNode holds the two outcomes of one handicap line.
type TwoWayNode struct {
	One *float64 `json:"1,omitempty"`
	Two *float64 `json:"2,omitempty"`
}

// MarketSet is the sparse union of market groups read from one fixture card.
// Only the groups relevant to the fixture's category are populated; an absent
// market stays nil and is omitted on serialization, never zero-filled.
type MarketSet struct {
	One       *float64                 `json:"1,omitempty"`
	X         *float64                 `json:"X,omitempty"`
	Two       *float64                 `json:"2,omitempty"`
	OverUnder map[string]OverUnderNode `json:"O/U,omitempty"`
	Handicap  map[string]TwoWayNode    `json:"1 2 + Handicap,omitempty"`
	GG        *float64                 `json:"GG,omitempty"`
	NG        *float64                 `json:"NG,omitempty"`
}

// HasHandicap reports whether at least one handicap line was read.
func (m MarketSet) HasHandicap() bool {
	return len(m.Handicap) > 0
}

// SetOverUnder stores one totals line, allocating the map on first use.
// Lines with neither outcome are dropped by the caller, not stored empty.
func (m *MarketSet) SetOverUnder(line string, node OverUnderNode) {
	if node.Under == nil && node.Over == nil {
		return
	}
	if m.OverUnder == nil {
		m.OverUnder = make(map[string]OverUnderNode)
	}
	m.OverUnder[line] = node
}

// SetHandicap stores one handicap line, allocating the map on first use.
func (m *MarketSet) SetHandicap(line string, node TwoWayNode) {
	if node.One == nil && node.Two == nil {
		return
	}
	if m.Handicap == nil {
		m.Handicap = make(map[string]TwoWayNode)
	}
	m.Handicap[line] = node
}

// OddsRecord is one fixture's extracted odds in the shape the audit artifact
// persists and the normalizer consumes.
type OddsRecord struct {
	Teams string    `json:"Teams"`
	Odds  MarketSet `json:"Odds"`
}

// ParseDecimal parses a displayed price. Decimal commas are converted to
// points first. Only strictly positive values are accepted.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// ParseDecimalPtr is ParseDecimal for optional fields: nil when unreadable.
func ParseDecimalPtr(s string) *float64 {
	v, ok := ParseDecimal(s)
	if !ok {
		return nil
	}
	return &v
}

// Float is a literal pointer helper used when building records and tests.
func Float(v float64) *float64 {
	return &v
}
