// Package calendar walks the portal's paginated hearing calendar and
// collects the unique A-numbers of cases heard within a date range.
//
// Each day cell is stepped through an explicit state sequence; every
// state has exactly one failure edge, which abandons the cell and moves
// to the next one. Nothing a single cell does can end the traversal.
package calendar

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"ecasharvest/internal/browser"
	"ecasharvest/internal/config"
)

// State identifies how far a cell visit progressed.
type State int

const (
	// StateCellOpened: the cell's expand affordances were tried.
	StateCellOpened State = iota
	// StateOverlayInspected: the day's hearing list, if any, was opened.
	StateOverlayInspected
	// StatePopupRead: the hearing-detail popup text was captured.
	StatePopupRead
	// StatePopupClosed: the popup was dismissed.
	StatePopupClosed
)

func (s State) String() string {
	switch s {
	case StateCellOpened:
		return "cell_opened"
	case StateOverlayInspected:
		return "overlay_inspected"
	case StatePopupRead:
		return "popup_read"
	case StatePopupClosed:
		return "popup_closed"
	}
	return "unknown"
}

// CellResult is the typed outcome of one cell visit.
type CellResult struct {
	// State is the last state the visit reached.
	State State
	// Skipped marks a visit abandoned before completing.
	Skipped bool
	// SkipReason says why, for skipped visits.
	SkipReason string
	// CaseIDs holds the digits-only A-numbers found in range.
	CaseIDs []string
}

// Stats summarizes a traversal run.
type Stats struct {
	PagesVisited int
	CellsVisited int
	CellsSkipped int
}

// Options tune a traversal. Zero values take production defaults.
type Options struct {
	// PopupWait bounds the wait for the hearing-detail popup, the one
	// required synchronization point per cell.
	PopupWait time.Duration
	// Settle pauses after overlay interactions.
	Settle time.Duration
	// MaxPages bounds page advances. 60 months covers five years; a
	// safety stop against a looping calendar widget, not a coverage
	// target.
	MaxPages int
}

func (o Options) popupWait() time.Duration {
	if o.PopupWait == 0 {
		return 10 * time.Second
	}
	return o.PopupWait
}

func (o Options) maxPages() int {
	if o.MaxPages == 0 {
		return 60
	}
	return o.MaxPages
}

var (
	hearingDateRE = regexp.MustCompile(`(?i)Hearing Date:\s*([^\n]+)`)
	aNumberRE     = regexp.MustCompile(`A[#\-\s]*\s*(\d{3}[-\s]?\d{3}[-\s]?\d{3})`)
	nonDigitRE    = regexp.MustCompile(`[^0-9]`)
)

// Traversal walks calendar pages through a Driver.
type Traversal struct {
	drv  browser.Driver
	sel  *config.Selectors
	opts Options
	log  *zap.Logger
}

// NewTraversal creates a traversal over the given driver and selectors.
func NewTraversal(drv browser.Driver, sel *config.Selectors, opts Options, log *zap.Logger) *Traversal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Traversal{drv: drv, sel: sel, opts: opts, log: log}
}

// Run visits every day cell on every calendar page up to the page bound
// and returns the sorted set of unique in-range A-numbers. A missing or
// failing "next month" control is the normal end of the calendar, not
// an error.
func (t *Traversal) Run(rng DateRange) ([]string, Stats) {
	ids := make(map[string]struct{})
	var stats Stats

	for {
		stats.PagesVisited++
		cells := t.drv.Elements(t.sel.Calendar.DayCells)
		for i, cell := range cells {
			res := t.visitCell(cell, rng)
			stats.CellsVisited++
			if res.Skipped {
				stats.CellsSkipped++
				t.log.Debug("calendar cell skipped",
					zap.Int("page", stats.PagesVisited),
					zap.Int("cell", i),
					zap.Stringer("state", res.State),
					zap.String("reason", res.SkipReason))
			}
			for _, id := range res.CaseIDs {
				ids[id] = struct{}{}
			}
		}

		if stats.PagesVisited >= t.opts.maxPages() {
			t.log.Warn("calendar page bound reached", zap.Int("pages", stats.PagesVisited))
			break
		}
		next, ok := t.drv.Element(t.sel.Calendar.MonthNext)
		if !ok {
			break
		}
		if err := next.Click(); err != nil {
			break
		}
		time.Sleep(t.opts.Settle)
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, stats
}

// visitCell steps one day cell through open -> inspect -> read -> close.
// The expand affordances are optional; only the hearing-detail popup is
// required once interaction begins.
func (t *Traversal) visitCell(cell browser.Element, rng DateRange) CellResult {
	res := CellResult{State: StateCellOpened}

	if day, ok := cell.Element(t.sel.Calendar.DayNumberInCell); ok {
		_ = day.Click()
	}
	if dots := cell.Elements(t.sel.Calendar.HearingDot); len(dots) > 0 {
		_ = dots[0].Click()
	}
	time.Sleep(t.opts.Settle)

	res.State = StateOverlayInspected
	if rows := t.drv.Elements(t.sel.Calendar.OverlayRow); len(rows) > 0 {
		_ = rows[0].Click()
		time.Sleep(t.opts.Settle)
	}

	popup, err := t.drv.WaitVisible(t.sel.HearingPopup.Dialog, t.opts.popupWait())
	if err != nil {
		res.Skipped = true
		res.SkipReason = "hearing popup never appeared"
		return res
	}
	text, err := popup.Text()
	if err != nil {
		res.Skipped = true
		res.SkipReason = "popup text unreadable"
		t.closePopup(popup)
		return res
	}
	res.State = StatePopupRead

	if inRange(text, rng) {
		res.CaseIDs = extractANumbers(text)
	}

	t.closePopup(popup)
	res.State = StatePopupClosed
	return res
}

// inRange reads the popup's "Hearing Date:" field and tests range
// membership. A missing or unparseable date counts as in range.
func inRange(popupText string, rng DateRange) bool {
	m := hearingDateRE.FindStringSubmatch(popupText)
	if m == nil {
		return true
	}
	d, err := time.Parse("1/2/2006", strings.TrimSpace(m[1]))
	if err != nil {
		return true
	}
	return rng.Contains(d)
}

// extractANumbers returns the digits-only form of every A-number-like
// substring in the text.
func extractANumbers(text string) []string {
	var out []string
	for _, m := range aNumberRE.FindAllStringSubmatch(text, -1) {
		out = append(out, nonDigitRE.ReplaceAllString(m[1], ""))
	}
	return out
}

// closePopup prefers the explicit close control and falls back to
// blurring the active element.
func (t *Traversal) closePopup(popup browser.Element) {
	if closeBtn, ok := popup.Element(t.sel.HearingPopup.Close); ok {
		if closeBtn.Click() == nil {
			return
		}
	}
	_ = t.drv.Blur()
}
