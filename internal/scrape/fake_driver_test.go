package scrape

import (
	"context"
	"strings"
	"time"
)

// fakeDriver simulates a page with one checkbox and a virtualized list for
// the state-machine tests. Evaluate dispatches on the script body the real
// implementations generate.
type fakeDriver struct {
	checked      bool
	nativeBroken bool
	injectBroken bool
	nativeClicks int
	injects      int
	stateReads   int

	countSeq []int
	countIdx int
	scrolls  int
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error { return nil }

func (d *fakeDriver) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	return nil
}

func (d *fakeDriver) Click(ctx context.Context, sel string) error { return nil }

func (d *fakeDriver) ClickNth(ctx context.Context, sel string, i int) error {
	d.nativeClicks++
	if !d.nativeBroken {
		d.checked = !d.checked
	}
	return nil
}

func (d *fakeDriver) Text(ctx context.Context, sel string) (string, error) { return "", nil }

func (d *fakeDriver) HTML(ctx context.Context, sel string) (string, error) { return "<body></body>", nil }

func (d *fakeDriver) Count(ctx context.Context, sel string) (int, error) {
	if len(d.countSeq) == 0 {
		return 0, nil
	}
	n := d.countSeq[d.countIdx]
	if d.countIdx < len(d.countSeq)-1 {
		d.countIdx++
	}
	return n, nil
}

func (d *fakeDriver) Evaluate(ctx context.Context, js string, out any) error {
	switch {
	case strings.Contains(js, "return !!el.checked"):
		d.stateReads++
		if p, ok := out.(**bool); ok {
			v := d.checked
			*p = &v
		}
	case strings.Contains(js, "el.checked = "):
		d.injects++
		if !d.injectBroken {
			d.checked = strings.Contains(js, "el.checked = true")
		}
		if p, ok := out.(*bool); ok {
			*p = true
		}
	}
	return nil
}

func (d *fakeDriver) ScrollBy(ctx context.Context, dx, dy float64) error {
	d.scrolls++
	return nil
}
