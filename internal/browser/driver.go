// Package browser abstracts the automation driver. The extraction core only
// consumes the Driver interface; chromedp lives behind it so state machines
// are testable with a fake.
package browser

import (
	"context"
	"time"
)

// Driver is the minimal primitive set the extraction core relies on.
// Implementations serialize all calls against one page: the DOM, scroll
// position and open dropdowns are a single shared resource.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	Click(ctx context.Context, sel string) error
	// ClickNth clicks the i-th (0-based) element matching sel.
	ClickNth(ctx context.Context, sel string, i int) error
	Text(ctx context.Context, sel string) (string, error)
	// HTML returns the outer HTML of the first element matching sel.
	HTML(ctx context.Context, sel string) (string, error)
	Count(ctx context.Context, sel string) (int, error)
	Evaluate(ctx context.Context, js string, out any) error
	ScrollBy(ctx context.Context, dx, dy float64) error
}
