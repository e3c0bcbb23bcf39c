package scrape

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hh24tech/sisal-sync/internal/browser"
)

// Suppressor clears transient overlays (consent banners, tooltips,
// coach-marks) so clicks and reads are not intercepted. All operations are
// best-effort and never fatal: a late-appearing overlay is caught by the
// next call.
type Suppressor struct {
	d browser.Driver
}

func NewSuppressor(d browser.Driver) *Suppressor {
	return &Suppressor{d: d}
}

// Suppress runs two removal passes ~100ms apart. Driver errors while
// probing are swallowed.
func (s *Suppressor) Suppress(ctx context.Context) {
	for pass := 0; pass < 2; pass++ {
		if pass > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
		if err := s.d.Evaluate(ctx, removeOverlaysJS(), nil); err != nil {
			slog.Debug("Overlay sweep failed", "pass", pass, "error", err)
		}
	}
}

// InstallKiller installs a persistent page script: a MutationObserver plus a
// 500ms interval remove overlays as they appear, an injected style sheet
// hides the known signatures, and a capture-phase click guard stops overlay
// anchors from hijacking clicks meant for the catalog (accordion headers,
// competition menu).
func (s *Suppressor) InstallKiller(ctx context.Context) {
	if err := s.d.Evaluate(ctx, killerScriptJS(), nil); err != nil {
		slog.Warn("Failed to install overlay killer", "error", err)
	}
}

func removeOverlaysJS() string {
	return `(() => {
		const sels = ` + jsSelectorArray() + `;
		let removed = 0;
		for (const sel of sels) {
			try {
				document.querySelectorAll(sel).forEach(el => { el.remove(); removed++; });
			} catch (e) {}
		}
		return removed;
	})()`
}

func killerScriptJS() string {
	return `(() => {
		if (window.__overlayKillerInstalled) return true;
		window.__overlayKillerInstalled = true;

		const sels = ` + jsSelectorArray() + `;
		const kill = () => {
			for (const sel of sels) {
				try { document.querySelectorAll(sel).forEach(el => el.remove()); } catch (e) {}
			}
		};

		const style = document.createElement('style');
		style.textContent = sels.map(s => s + ' { display: none !important; }').join('\n');
		document.documentElement.appendChild(style);

		new MutationObserver(kill).observe(document.documentElement, { childList: true, subtree: true });
		setInterval(kill, 500);

		document.addEventListener('click', (ev) => {
			const a = ev.target.closest && ev.target.closest('a[target="_blank"]');
			if (!a) return;
			if (ev.target.closest('.FR-Accordion') || ev.target.closest('.competitionMenu-theme')) {
				ev.preventDefault();
				ev.stopPropagation();
			}
		}, true);

		kill();
		return true;
	})()`
}

func jsSelectorArray() string {
	quoted := make([]string, len(overlaySelectors))
	for i, sel := range overlaySelectors {
		quoted[i] = "'" + strings.ReplaceAll(sel, "'", "\\'") + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
