// Package browser wraps go-rod behind the small automation surface the
// portal flows consume: locate, wait, click, type, read text. The
// traversal and harvesting logic depend only on the Driver and Element
// interfaces, so they run against an in-memory fake in tests.
package browser

import "time"

// Element is a located page element.
type Element interface {
	// Click dispatches a left mouse click.
	Click() error
	// Input types text into the element, replacing existing content.
	Input(text string) error
	// Text returns the element's visible text.
	Text() (string, error)
	// Element locates a descendant. Absence is not an error.
	Element(selector string) (Element, bool)
	// Elements locates all matching descendants; nil when none match.
	Elements(selector string) []Element
}

// Driver is the automation capability consumed by the portal flows.
// Lookups that can legitimately come up empty report a bool instead of
// an error; WaitVisible is the only blocking synchronization primitive.
type Driver interface {
	// Navigate loads a URL and waits for the page load event.
	Navigate(url string) error
	// Element probes for a single element without waiting.
	Element(selector string) (Element, bool)
	// Elements returns all current matches without waiting.
	Elements(selector string) []Element
	// WaitVisible blocks until the selector is present and visible, or
	// the timeout elapses.
	WaitVisible(selector string, timeout time.Duration) (Element, error)
	// Blur removes focus from the active element. Used as a fallback to
	// dismiss overlays that lack a close control.
	Blur() error
}
