// Package portal drives the authenticated EOIR portal session: login
// and the tab navigation shared by the calendar and case flows.
package portal

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ecasharvest/internal/browser"
	"ecasharvest/internal/config"
)

// Timing groups the waits the portal flows depend on.
type Timing struct {
	// Wait bounds waits for required elements.
	Wait time.Duration
	// Settle pauses after clicks that re-render the content pane
	// without firing a load event.
	Settle time.Duration
	// Poll is the landing-page detection interval during login.
	Poll time.Duration
}

// DefaultTiming returns production timings.
func DefaultTiming() Timing {
	return Timing{
		Wait:   30 * time.Second,
		Settle: 2 * time.Second,
		Poll:   250 * time.Millisecond,
	}
}

// Client wraps the automation driver with portal-specific flows.
type Client struct {
	drv    browser.Driver
	sel    *config.Selectors
	timing Timing
	log    *zap.Logger
}

// NewClient creates a portal client.
func NewClient(drv browser.Driver, sel *config.Selectors, timing Timing, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{drv: drv, sel: sel, timing: timing, log: log}
}

// Login opens the portal, submits credentials, and waits until an
// authenticated landing page renders (either main tab is acceptable).
func (c *Client) Login(url, email, password string) error {
	if err := c.drv.Navigate(url); err != nil {
		return fmt.Errorf("open portal: %w", err)
	}

	emailBox, err := c.drv.WaitVisible(c.sel.Login.Email, c.timing.Wait)
	if err != nil {
		return fmt.Errorf("login form: %w", err)
	}
	if err := emailBox.Input(email); err != nil {
		return fmt.Errorf("enter email: %w", err)
	}

	pwdBox, err := c.drv.WaitVisible(c.sel.Login.Password, c.timing.Wait)
	if err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	if err := pwdBox.Input(password); err != nil {
		return fmt.Errorf("enter password: %w", err)
	}

	submit, err := c.drv.WaitVisible(c.sel.Login.Submit, c.timing.Wait)
	if err != nil {
		return fmt.Errorf("submit control: %w", err)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	deadline := time.Now().Add(c.timing.Wait)
	for {
		if _, ok := c.drv.Element(c.sel.Nav.CalendarTab); ok {
			return nil
		}
		if _, ok := c.drv.Element(c.sel.Nav.CasesTab); ok {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("login did not reach the portal home")
		}
		time.Sleep(c.timing.Poll)
	}
}

// GotoCalendar opens the hearing calendar tab.
func (c *Client) GotoCalendar() error {
	return c.openTab("calendar", c.sel.Nav.CalendarTab)
}

// GotoCases opens the case search tab.
func (c *Client) GotoCases() error {
	return c.openTab("cases", c.sel.Nav.CasesTab)
}

func (c *Client) openTab(name, selector string) error {
	tab, err := c.drv.WaitVisible(selector, c.timing.Wait)
	if err != nil {
		return fmt.Errorf("%s tab: %w", name, err)
	}
	if err := tab.Click(); err != nil {
		return fmt.Errorf("open %s tab: %w", name, err)
	}
	// The tab swap re-renders in place; there is no load event to wait on.
	time.Sleep(c.timing.Settle)
	return nil
}
