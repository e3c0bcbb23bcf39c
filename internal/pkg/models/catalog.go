package models

import "strings"

// Category is one sport section of the catalog. Name is the canonical
// rotation identifier, Aliases are the tile labels that select the section
// on site, SportID is the numeric id used by league tile anchors
// (data-qa="manifestazione_{id}_*"), zero when the sport has no id fast path.
type Category struct {
	Name     string
	Aliases  []string
	SportID  int
	ThreeWay bool
}

// Matches reports whether a tile label selects this category.
func (c Category) Matches(label string) bool {
	norm := strings.ToLower(strings.TrimSpace(label))
	if norm == strings.ToLower(c.Name) {
		return true
	}
	for _, a := range c.Aliases {
		if norm == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// Fixture is one scheduled event inside a region.
type Fixture struct {
	Home   string
	Away   string
	Region string
	Live   bool
}

// Teams renders the wire form of the contestant pair.
func (f Fixture) Teams() string {
	return f.Home + " vs " + f.Away
}

// Key is the dedup key: the literal "home vs away" string, case-insensitive.
func (f Fixture) Key() string {
	return strings.ToLower(f.Teams())
}
