package sports

import (
	"context"
	"fmt"
	"time"

	"github.com/hh24tech/sisal-sync/internal/scrape"
)

// fakeDriver serves canned HTML snapshots. Clicking tabSel swaps the page
// to tabHTML; dropdown panels are consumed from panels in open order.
type fakeDriver struct {
	pageHTML string
	tabSel   string
	tabHTML  string
	panels   []string
	panelIdx int
	clicks   []string
}

func newPage(d *fakeDriver) *scrape.Page {
	return scrape.NewPage(d, scrape.NewSuppressor(d))
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error { return nil }

func (d *fakeDriver) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	if sel == scrape.SelDropdownPanel && d.panelIdx >= len(d.panels) {
		return fmt.Errorf("no panel for %q", sel)
	}
	return nil
}

func (d *fakeDriver) Click(ctx context.Context, sel string) error {
	d.clicks = append(d.clicks, sel)
	if sel == d.tabSel && d.tabHTML != "" {
		d.pageHTML = d.tabHTML
	}
	return nil
}

func (d *fakeDriver) ClickNth(ctx context.Context, sel string, i int) error { return nil }

func (d *fakeDriver) Text(ctx context.Context, sel string) (string, error) { return "", nil }

func (d *fakeDriver) HTML(ctx context.Context, sel string) (string, error) {
	if sel == scrape.SelDropdownPanel {
		h := d.panels[d.panelIdx]
		d.panelIdx++
		return h, nil
	}
	return d.pageHTML, nil
}

func (d *fakeDriver) Count(ctx context.Context, sel string) (int, error) {
	if sel == d.tabSel && d.tabHTML != "" {
		return 1, nil
	}
	return 0, nil
}

func (d *fakeDriver) Evaluate(ctx context.Context, js string, out any) error {
	if p, ok := out.(*bool); ok {
		*p = true
	}
	return nil
}

func (d *fakeDriver) ScrollBy(ctx context.Context, dx, dy float64) error { return nil }

func dropdownPanel(rows ...[3]string) string {
	html := `<div class="drop-list-chips-select-option-container-theme">`
	for _, r := range rows {
		html += `<div class="select-selected-on-hover-drop-list-chips-theme">` +
			`<div class="tw-fr-w-full"><span>` + r[0] + `</span></div>` +
			`<div class="tw-fr-w-full"><span>` + r[1] + `</span></div>` +
			`<div class="tw-fr-w-full"><span>` + r[2] + `</span></div>` +
			`</div>`
	}
	return html + `</div>`
}

func wantPrice(p *float64, want float64) bool {
	return p != nil && *p == want
}
