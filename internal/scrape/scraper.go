package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hh24tech/sisal-sync/internal/browser"
	"github.com/hh24tech/sisal-sync/internal/pkg/config"
	"github.com/hh24tech/sisal-sync/internal/pkg/models"
)

// Navigation selectors for reaching a sport section from the home page.
const (
	SelSportsTab       = "#dropdown1-tab1"
	SelSportSection    = "a.card-title[aria-label='Accedi alla sezione Sport']"
	SelSportSliderTile = ".horizontalScroll_container__ACxu6 > div > a"
)

// consecutive region-expand failures before the category switches to the
// flat league-tile mode for the remainder of the run.
const flatFallbackThreshold = 3

// RegionHandler receives one region's assembled records as soon as the
// region finishes. The scraper stays unaware of what happens downstream
// (audit files, normalization, egress).
type RegionHandler func(ctx context.Context, category, region string, records []models.OddsRecord)

// Progress receives coarse run-state updates. health.Status satisfies it.
type Progress interface {
	SetProgress(category, region string)
	RegionDone(fixtures int)
	RegionSkipped()
}

type noopProgress struct{}

func (noopProgress) SetProgress(string, string) {}
func (noopProgress) RegionDone(int)             {}
func (noopProgress) RegionSkipped()             {}

// Scraper runs one category end to end: open the sport section, warm up the
// filter UI, walk every region, extract with the category's strategy.
type Scraper struct {
	d        browser.Driver
	sup      *Suppressor
	walker   *Walker
	page     *Page
	cfg      config.ScraperConfig
	progress Progress
}

func NewScraper(d browser.Driver, cfg config.ScraperConfig, progress Progress) *Scraper {
	if progress == nil {
		progress = noopProgress{}
	}
	sup := NewSuppressor(d)
	return &Scraper{
		d:        d,
		sup:      sup,
		walker:   NewWalker(d, sup, cfg.ExpandRetries, cfg.ToggleRetries),
		page:     NewPage(d, sup),
		cfg:      cfg,
		progress: progress,
	}
}

// RunCategory processes one rotation entry. Region-level failures skip the
// region; only navigation-level failures abort the category.
func (s *Scraper) RunCategory(ctx context.Context, name string, handler RegionHandler) error {
	strategy, err := Get(name)
	if err != nil {
		return err
	}
	cat := strategy.Category()
	s.progress.SetProgress(cat.Name, "")

	if err := s.openCategory(ctx, cat); err != nil {
		return fmt.Errorf("failed to open category %q: %w", cat.Name, err)
	}

	s.warmup(ctx, cat.Name)

	regions, err := s.walker.Regions(ctx)
	if err != nil || len(regions) == 0 {
		slog.Warn("No region accordions found, using flat league mode", "category", cat.Name, "error", err)
		return s.runFlat(ctx, cat, strategy, handler)
	}

	consecutiveExpandFailures := 0
	for i, region := range regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.progress.SetProgress(cat.Name, region)

		if err := s.walker.Expand(ctx, i); err != nil {
			consecutiveExpandFailures++
			s.progress.RegionSkipped()
			slog.Warn("Region skipped, expand failed", "category", cat.Name, "region", region, "error", err)

			if consecutiveExpandFailures >= flatFallbackThreshold {
				slog.Warn("Too many expand failures, switching to flat league mode", "category", cat.Name)
				return s.runFlat(ctx, cat, strategy, handler)
			}
			continue
		}
		consecutiveExpandFailures = 0

		records := s.extractRegion(ctx, cat, strategy, region)

		if _, _, err := s.walker.UncheckAll(ctx); err != nil {
			slog.Warn("Failed to restore league filters", "region", region, "error", err)
		}
		if err := s.walker.Collapse(ctx, i); err != nil {
			slog.Warn("Failed to collapse region", "region", region, "error", err)
		}

		s.progress.RegionDone(len(records))
		if handler != nil && len(records) > 0 {
			handler(ctx, cat.Name, region, records)
		}
	}
	return nil
}

// extractRegion runs the enter half of the symmetric filter pass, exhausts
// the fixture list and applies the strategy. Returns the deduplicated
// records.
func (s *Scraper) extractRegion(ctx context.Context, cat models.Category, strategy Strategy, region string) []models.OddsRecord {
	if _, unreachable, err := s.walker.CheckAll(ctx); err != nil {
		slog.Warn("League filter pass aborted", "region", region, "error", err)
		return nil
	} else if unreachable > 0 {
		slog.Warn("Some league filters unreachable", "region", region, "count", unreachable)
	}

	if _, err := Exhaust(ctx, s.d, SelCard, s.cfg.MaxScrollRounds, s.cfg.ScrollSettle); err != nil {
		slog.Warn("List exhaustion failed", "region", region, "error", err)
	}

	extracted, err := strategy.Extract(ctx, s.page)
	if err != nil {
		slog.Warn("Strategy extraction failed", "category", cat.Name, "region", region, "error", err)
		return nil
	}

	assembler := NewAssembler()
	for _, e := range extracted {
		e.Fixture.Region = region
		if e.Fixture.Live {
			continue
		}
		if !assembler.Add(e.Fixture, e.Record) {
			slog.Debug("Duplicate fixture dropped", "teams", e.Fixture.Teams())
		}
	}
	return assembler.Records()
}

// warmup gives the first few regions one expand → check-all → uncheck-all →
// collapse pass, which settles the filter UI before real extraction.
func (s *Scraper) warmup(ctx context.Context, category string) {
	regions, err := s.walker.Regions(ctx)
	if err != nil {
		slog.Debug("Warmup skipped", "category", category, "error", err)
		return
	}
	n := s.cfg.WarmupRegions
	if n > len(regions) {
		n = len(regions)
	}

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		if err := s.walker.Expand(ctx, i); err != nil {
			slog.Debug("Warmup expand failed", "region", i, "error", err)
			continue
		}
		_, _, _ = s.walker.CheckAll(ctx)
		_, _, _ = s.walker.UncheckAll(ctx)
		_ = s.walker.Collapse(ctx, i)
	}
	slog.Info("Warmup finished", "category", category, "regions", n)
}

// openCategory clicks through home → sports section → sport tile. Sports
// with a known id use the direct tile anchor; the rest are matched against
// the slider labels via aliases, skipping promotional tiles.
func (s *Scraper) openCategory(ctx context.Context, cat models.Category) error {
	if err := s.d.Navigate(ctx, s.cfg.BaseURL); err != nil {
		return err
	}
	s.sup.InstallKiller(ctx)
	s.sup.Suppress(ctx)

	// Both clicks are best-effort: a matchpoint deep link lands past them.
	if err := s.d.Click(ctx, SelSportsTab); err != nil {
		slog.Debug("Sports tab click skipped", "error", err)
	}
	if err := s.d.Click(ctx, SelSportSection); err != nil {
		slog.Debug("Sport section click skipped", "error", err)
	}
	if err := s.d.WaitVisible(ctx, SelSportSliderTile, 10*time.Second); err != nil {
		return fmt.Errorf("sport slider never appeared: %w", err)
	}

	if cat.SportID > 0 {
		tile := fmt.Sprintf("a#sport-link-%d", cat.SportID)
		if n, err := s.d.Count(ctx, tile); err == nil && n > 0 {
			s.sup.Suppress(ctx)
			if err := s.d.Click(ctx, tile); err == nil {
				s.sup.Suppress(ctx)
				time.Sleep(800 * time.Millisecond)
				return nil
			}
		}
	}

	idx, err := s.findTile(ctx, cat)
	if err != nil {
		return err
	}
	s.sup.Suppress(ctx)
	if err := s.d.ClickNth(ctx, SelSportSliderTile, idx); err != nil {
		return fmt.Errorf("failed to click sport tile %d: %w", idx, err)
	}
	s.sup.Suppress(ctx)
	time.Sleep(800 * time.Millisecond)
	return nil
}

func (s *Scraper) findTile(ctx context.Context, cat models.Category) (int, error) {
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%s).forEach(el => out.push(el.textContent.trim()));
		return out;
	})()`, strconv.Quote(SelSportSliderTile))

	var labels []string
	if err := s.d.Evaluate(ctx, js, &labels); err != nil {
		return 0, fmt.Errorf("failed to list sport tiles: %w", err)
	}

	for i, label := range labels {
		clean := cleanTileLabel(label)
		if strings.Contains(clean, "quote top") || strings.Contains(clean, "tipster") {
			continue
		}
		if cat.Matches(clean) || containsAlias(cat, clean) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no slider tile matches category %q (tiles: %s)", cat.Name, strings.Join(labels, " | "))
}

// cleanTileLabel keeps letters and spaces only, lowercased, so decorated
// tile labels still match their alias.
func cleanTileLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || r == ' ' || r > 127 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func containsAlias(cat models.Category, label string) bool {
	if strings.Contains(label, strings.ToLower(cat.Name)) {
		return true
	}
	for _, a := range cat.Aliases {
		if strings.Contains(label, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// runFlat is the fallback for categories without region accordions: iterate
// league tiles directly, extracting each league page with the same
// strategy.
func (s *Scraper) runFlat(ctx context.Context, cat models.Category, strategy Strategy, handler RegionHandler) error {
	tileSel := LeagueTileSelector(cat.SportID)
	if tileSel == "" {
		return fmt.Errorf("category %q has no region accordions and no league tile fast path", cat.Name)
	}

	names, err := s.leagueTileNames(ctx, tileSel)
	if err != nil {
		return fmt.Errorf("failed to list league tiles: %w", err)
	}
	if len(names) == 0 {
		slog.Warn("No league tiles found", "category", cat.Name)
		return nil
	}
	slog.Info("Flat league mode", "category", cat.Name, "leagues", len(names))

	for i, league := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.progress.SetProgress(cat.Name, league)
		s.sup.Suppress(ctx)

		if err := s.d.ClickNth(ctx, tileSel, i); err != nil {
			s.progress.RegionSkipped()
			slog.Warn("League tile click failed", "league", league, "error", err)
			continue
		}

		if !s.waitForCardsOrEmpty(ctx) {
			s.progress.RegionSkipped()
			slog.Warn("League page never settled", "league", league)
			s.goBack(ctx, tileSel)
			continue
		}

		if _, err := Exhaust(ctx, s.d, SelCard, s.cfg.MaxScrollRounds, s.cfg.ScrollSettle); err != nil {
			slog.Debug("League exhaustion failed", "league", league, "error", err)
		}

		extracted, err := strategy.Extract(ctx, s.page)
		if err != nil {
			slog.Warn("Strategy extraction failed", "league", league, "error", err)
		}

		assembler := NewAssembler()
		for _, e := range extracted {
			e.Fixture.Region = league
			if e.Fixture.Live {
				continue
			}
			assembler.Add(e.Fixture, e.Record)
		}
		records := assembler.Records()
		s.progress.RegionDone(len(records))
		if handler != nil && len(records) > 0 {
			handler(ctx, cat.Name, league, records)
		}

		s.goBack(ctx, tileSel)
	}
	return nil
}

func (s *Scraper) leagueTileNames(ctx context.Context, tileSel string) ([]string, error) {
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%s).forEach(tile => {
			const span = tile.querySelector(%s);
			out.push(span ? span.textContent.trim() : (tile.getAttribute('aria-label') || tile.textContent.trim()));
		});
		return out;
	})()`, strconv.Quote(tileSel), strconv.Quote(SelLeagueTileName))

	var names []string
	if err := s.d.Evaluate(ctx, js, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// waitForCardsOrEmpty polls for either fixture cards or an explicit
// empty-state message. Returns false when neither appears in time.
func (s *Scraper) waitForCardsOrEmpty(ctx context.Context) bool {
	deadline := time.Now().Add(6 * time.Second)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		if n, err := s.d.Count(ctx, SelCard); err == nil && n > 0 {
			return true
		}
		view, err := s.page.Snapshot(ctx)
		if err == nil && view.HasEmptyState() {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	return false
}

func (s *Scraper) goBack(ctx context.Context, tileSel string) {
	_ = s.d.Evaluate(ctx, "history.back()", nil)
	if err := s.d.WaitVisible(ctx, tileSel, 8*time.Second); err != nil {
		slog.Debug("League tiles not visible after back navigation", "error", err)
	}
	time.Sleep(400 * time.Millisecond)
}
