package scrape

import "fmt"

// Site selectors. These are hashed CSS-module class names and data-qa
// attributes observed on the live site; they change with frontend deploys,
// so they are concentrated here.
const (
	SelCard        = ".grid_mg-row-wrapper__usTh4"
	SelTeamSpans   = "a.regulator_description__SY8Vw span"
	SelMarketGroup = ".grid_mg-market__gVuGf"
	SelChipSpans   = "button.chips-commons span"
	SelLiveMarker  = ".live, .badge-live, .inplay, .live-badge, [data-live='true']"

	SelAccordion        = ".FR-Accordion"
	SelAccordionHeader  = ".FR-Accordion__header"
	SelAccordionContent = ".FR-Accordion__content"
	SelRegionNameSpan   = ".FR-Accordion__header span.tw-fr-text-paragraph-s"
	SelLeagueCheckbox   = ".FR-Accordion__content input[type='checkbox']"

	SelCounterChip    = "button.counter-drop-chip-default-theme span"
	SelCounterButton  = "button.counter-drop-chip-default-theme"
	SelDropdownPanel  = ".drop-list-chips-select-option-container-theme"
	SelDropdownRow    = "div.select-selected-on-hover-drop-list-chips-theme"
	SelDropdownCol    = "div.tw-fr-w-full span"
	SelInlineAttrCell = ".marketAttributeSelectorCellCommon_mg-market-attribute-selector-cell__ISAm1"
	SelAttrBlock      = ".template_mg-market-attribute__Y16SU"
	SelAttrBlockTitle = ".mg-market-attribute-desc .tw-fr-font-primary"

	SelLeagueTileName = "span.tw-fr-text-paragraph-s"
	SelSubcategoryBar = ".filters-subcategory-theme"
)

// overlaySelectors are removed outright by the suppressor and the installed
// killer script.
var overlaySelectors = []string{
	".customTooltip_container__hhqqn",
	".portal-theme.tipster-theme .customTooltip_container__hhqqn",
	".portal-theme[role='alertdialog']",
	".react-joyride__overlay",
	".react-joyride__spotlight",
	"#onetrust-banner-sdk",
	"#onetrust-consent-sdk .onetrust-pc-dark-filter",
	".tw-modal",
	"[role='dialog']",
	".modal-backdrop",
	".overlay-backdrop",
}

// emptyStateTexts mark a region or league page with no events; the probe is
// case-insensitive.
var emptyStateTexts = []string{
	"nessun", "nessuna", "non ci sono", "no events", "no matches",
}

// LeagueTileSelector returns the anchor selector for a sport's league tiles
// (the flat fallback path).
func LeagueTileSelector(sportID int) string {
	if sportID <= 0 {
		return ""
	}
	return fmt.Sprintf("a[data-qa^='manifestazione_%d_']", sportID)
}
