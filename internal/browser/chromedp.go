package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/hh24tech/sisal-sync/internal/pkg/config"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// Browser owns one headless Chrome page and implements Driver on it.
type Browser struct {
	ctx       context.Context
	cancels   []context.CancelFunc
	opTimeout time.Duration
}

var _ Driver = (*Browser)(nil)

func New(ctx context.Context, cfg *config.BrowserConfig) (*Browser, error) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(ua),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		if os.Getenv("SISAL_SYNC_DEBUG") == "1" {
			fmt.Printf("chromedp: "+format+"\n", v...)
		}
	}))

	b := &Browser{
		ctx:       pageCtx,
		cancels:   []context.CancelFunc{cancelPage, cancelAlloc},
		opTimeout: cfg.OpTimeout,
	}

	// Start the browser process up front so a broken Chrome install fails
	// the run immediately instead of on the first navigation.
	if err := chromedp.Run(pageCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	slog.Info("Headless browser started", "headless", cfg.Headless)
	return b, nil
}

// Context exposes the page context for cdproto-level calls (session store).
func (b *Browser) Context() context.Context {
	return b.ctx
}

func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// run executes actions with the caller's deadline layered over the page
// context, falling back to the configured per-op timeout.
func (b *Browser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if timeout <= 0 {
		timeout = b.opTimeout
	}
	opCtx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(opCtx, actions...) }()
	select {
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := b.run(ctx, 0, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (b *Browser) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	return b.run(ctx, timeout, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (b *Browser) Click(ctx context.Context, sel string) error {
	return b.run(ctx, 0, chromedp.Click(sel, chromedp.ByQuery))
}

func (b *Browser) ClickNth(ctx context.Context, sel string, i int) error {
	js := fmt.Sprintf(`(() => {
		const els = document.querySelectorAll(%s);
		if (els.length <= %d) return false;
		els[%d].scrollIntoView({block: 'center'});
		els[%d].click();
		return true;
	})()`, strconv.Quote(sel), i, i, i)

	var clicked bool
	if err := b.Evaluate(ctx, js, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no element %d for selector %q", i, sel)
	}
	return nil
}

func (b *Browser) Text(ctx context.Context, sel string) (string, error) {
	var out string
	err := b.run(ctx, 0, chromedp.Text(sel, &out, chromedp.ByQuery))
	return out, err
}

func (b *Browser) HTML(ctx context.Context, sel string) (string, error) {
	var out string
	err := b.run(ctx, 0, chromedp.OuterHTML(sel, &out, chromedp.ByQuery))
	return out, err
}

func (b *Browser) Count(ctx context.Context, sel string) (int, error) {
	js := fmt.Sprintf(`document.querySelectorAll(%s).length`, strconv.Quote(sel))
	var n int
	if err := b.Evaluate(ctx, js, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (b *Browser) Evaluate(ctx context.Context, js string, out any) error {
	if out == nil {
		var discard any
		out = &discard
	}
	return b.run(ctx, 0, chromedp.Evaluate(js, out))
}

func (b *Browser) ScrollBy(ctx context.Context, dx, dy float64) error {
	js := fmt.Sprintf(`window.scrollBy(%v, %v)`, dx, dy)
	return b.Evaluate(ctx, js, nil)
}
