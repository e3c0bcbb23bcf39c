package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hh24tech/sisal-sync/internal/browser"
)

// View is a goquery snapshot of the current page (or a fragment of it).
// Strategies parse snapshots instead of poking the DOM element by element,
// which keeps the per-sport readers testable on static HTML.
type View struct {
	Doc *goquery.Document
}

// ParseView builds a view from raw HTML.
func ParseView(html string) (*View, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse view html: %w", err)
	}
	return &View{Doc: doc}, nil
}

// CaptureView snapshots the element matching sel ("body" when empty).
func CaptureView(ctx context.Context, d browser.Driver, sel string) (*View, error) {
	if sel == "" {
		sel = "body"
	}
	html, err := d.HTML(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %q: %w", sel, err)
	}
	return ParseView(html)
}

// HasEmptyState reports whether the view shows a "no events" message.
func (v *View) HasEmptyState() bool {
	text := strings.ToLower(v.Doc.Text())
	for _, marker := range emptyStateTexts {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Cards returns the fixture cards in DOM order.
func (v *View) Cards() []*Card {
	var cards []*Card
	v.Doc.Find(SelCard).Each(func(i int, sel *goquery.Selection) {
		cards = append(cards, &Card{Sel: sel, Index: i})
	})
	return cards
}

// Card is one fixture row.
type Card struct {
	Sel   *goquery.Selection
	Index int
}

// Teams reads the two contestant names. ok is false when fewer than two
// spans are present.
func (c *Card) Teams() (home, away string, ok bool) {
	var names []string
	c.Sel.Find(SelTeamSpans).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			names = append(names, t)
		}
	})
	if len(names) < 2 {
		return "", "", false
	}
	return names[0], names[1], true
}

// IsLive checks explicit live markers first, then falls back to a lowercase
// substring probe of the card text.
func (c *Card) IsLive() bool {
	if c.Sel.Find(SelLiveMarker).Length() > 0 {
		return true
	}
	text := strings.ToLower(c.Sel.Text())
	return strings.Contains(text, "live") ||
		strings.Contains(text, "in play") ||
		strings.Contains(text, "in-play")
}

// GroupCount returns the number of market groups on the card.
func (c *Card) GroupCount() int {
	return c.Sel.Find(SelMarketGroup).Length()
}

// Chip is one odds button: its displayed price text plus the data-qa tail
// identifier when the markup carries one.
type Chip struct {
	Tail string
	Text string
}

// GroupChips returns the chips of the group-th market group in DOM order.
func (c *Card) GroupChips(group int) []Chip {
	groups := c.Sel.Find(SelMarketGroup)
	if group < 0 || group >= groups.Length() {
		return nil
	}
	return chipsOf(groups.Eq(group))
}

// AllChips returns every chip on the card regardless of grouping.
func (c *Card) AllChips() []Chip {
	return chipsOf(c.Sel)
}

func chipsOf(root *goquery.Selection) []Chip {
	var chips []Chip
	root.Find(SelChipSpans).Each(func(_ int, span *goquery.Selection) {
		tail, ok := span.Attr("data-qa")
		if !ok {
			tail, _ = span.Closest("button").Attr("data-qa")
		}
		chips = append(chips, Chip{
			Tail: tail,
			Text: strings.TrimSpace(span.Text()),
		})
	})
	return chips
}

// CounterChips returns the texts of the card's counter chips (the displayed
// line of a totals/handicap selector) in DOM order.
func (c *Card) CounterChips() []string {
	var out []string
	c.Sel.Find(SelCounterChip).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// AttrCell is one inline market-attribute cell: the currently selected line
// plus the outcome chips shown next to it.
type AttrCell struct {
	Line  string
	Chips []Chip
}

// AttrCells returns the card's inline market-attribute cells in DOM order
// (american football spreads and totals render this way).
func (c *Card) AttrCells() []AttrCell {
	var cells []AttrCell
	c.Sel.Find(SelInlineAttrCell).Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, AttrCell{
			Line:  strings.TrimSpace(s.Find(SelCounterChip).First().Text()),
			Chips: chipsOf(s),
		})
	})
	return cells
}

// AttrBlock is one titled market block mounted by a header tab, e.g.
// "1X2 HANDICAP (-1)" or "U/O 48.5".
type AttrBlock struct {
	Title string
	Chips []Chip
}

// AttrBlocks returns the card's titled market blocks in DOM order.
func (c *Card) AttrBlocks() []AttrBlock {
	var blocks []AttrBlock
	c.Sel.Find(SelAttrBlock).Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, AttrBlock{
			Title: strings.TrimSpace(s.Find(SelAttrBlockTitle).First().Text()),
			Chips: chipsOf(s),
		})
	})
	return blocks
}

// DropdownRow is one option of an opened line selector: the line plus the
// two outcome prices in display order.
type DropdownRow struct {
	Line string
	Col1 string
	Col2 string
}

// ParseDropdownPanel reads the rows of a captured dropdown panel. Rows with
// fewer than three readable columns are discarded, never half-stored.
func ParseDropdownPanel(html string) ([]DropdownRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dropdown panel: %w", err)
	}

	var rows []DropdownRow
	doc.Find(SelDropdownRow).Each(func(_ int, row *goquery.Selection) {
		var cols []string
		row.Find(SelDropdownCol).Each(func(_ int, col *goquery.Selection) {
			cols = append(cols, strings.TrimSpace(col.Text()))
		})
		if len(cols) < 3 || cols[0] == "" || cols[1] == "" || cols[2] == "" {
			return
		}
		rows = append(rows, DropdownRow{Line: cols[0], Col1: cols[1], Col2: cols[2]})
	})
	return rows, nil
}
