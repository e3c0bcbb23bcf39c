package scrape

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hh24tech/sisal-sync/internal/browser"

	"github.com/hh24tech/sisal-sync/internal/pkg/models"
)

// Extracted pairs one fixture with its odds record.
type Extracted struct {
	Fixture models.Fixture
	Record  models.OddsRecord
}

// Strategy reads one category's market shapes out of the stabilized view.
type Strategy interface {
	Category() models.Category
	Extract(ctx context.Context, pg *Page) ([]Extracted, error)
}

// Page is the interaction surface handed to strategies: snapshot the view,
// open dropdowns and header tabs, re-snapshot. All driver calls remain
// serialized, the page is one shared resource.
type Page struct {
	Driver     browser.Driver
	Suppressor *Suppressor
}

func NewPage(d browser.Driver, sup *Suppressor) *Page {
	return &Page{Driver: d, Suppressor: sup}
}

// Snapshot captures the current document body as a parseable view.
func (p *Page) Snapshot(ctx context.Context) (*View, error) {
	return CaptureView(ctx, p.Driver, "body")
}

// ClickFirstPresent tries the selector candidates in order and clicks the
// first one that exists. Returns whether anything was clicked.
func (p *Page) ClickFirstPresent(ctx context.Context, candidates []string) bool {
	for _, sel := range candidates {
		n, err := p.Driver.Count(ctx, sel)
		if err != nil || n == 0 {
			continue
		}
		p.Suppressor.Suppress(ctx)
		if err := p.Driver.Click(ctx, sel); err == nil {
			time.Sleep(600 * time.Millisecond)
			return true
		}
	}
	return false
}

// ClickInCard clicks the innerIdx-th element matching innerSel inside the
// cardIdx-th fixture card.
func (p *Page) ClickInCard(ctx context.Context, cardIdx int, innerSel string, innerIdx int) error {
	js := fmt.Sprintf(`(() => {
		const card = document.querySelectorAll(%s)[%d];
		if (!card) return false;
		const els = card.querySelectorAll(%s);
		if (els.length <= %d) return false;
		els[%d].scrollIntoView({block: 'center'});
		els[%d].click();
		return true;
	})()`, strconv.Quote(SelCard), cardIdx, strconv.Quote(innerSel), innerIdx, innerIdx, innerIdx)

	var clicked bool
	if err := p.Driver.Evaluate(ctx, js, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no element %q[%d] in card %d", innerSel, innerIdx, cardIdx)
	}
	return nil
}

// CaptureDropdown waits briefly for the option panel and returns its rows.
func (p *Page) CaptureDropdown(ctx context.Context) ([]DropdownRow, error) {
	if err := p.Driver.WaitVisible(ctx, SelDropdownPanel, 2*time.Second); err != nil {
		return nil, fmt.Errorf("dropdown panel not visible: %w", err)
	}
	html, err := p.Driver.HTML(ctx, SelDropdownPanel)
	if err != nil {
		return nil, fmt.Errorf("failed to capture dropdown panel: %w", err)
	}
	return ParseDropdownPanel(html)
}

// CloseDropdown dismisses an open option panel with a synthetic Escape and
// a body click.
func (p *Page) CloseDropdown(ctx context.Context) {
	js := `(() => {
		document.dispatchEvent(new KeyboardEvent('keydown', { key: 'Escape', bubbles: true }));
		document.body.click();
		return true;
	})()`
	_ = p.Driver.Evaluate(ctx, js, nil)
	time.Sleep(200 * time.Millisecond)
}
