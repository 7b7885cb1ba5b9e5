package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config holds browser settings.
type Config struct {
	Headless            bool   `yaml:"headless"`
	Bin                 string `yaml:"bin"`
	ViewportWidth       int    `yaml:"viewport_width"`
	ViewportHeight      int    `yaml:"viewport_height"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
	DownloadDir         string `yaml:"download_dir"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Session owns the launched Chrome and the single page a run drives.
// It implements Driver.
type Session struct {
	cfg      Config
	log      *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// NewSession creates an unstarted session.
func NewSession(cfg Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{cfg: cfg, log: log}
}

// Start launches Chrome, opens the run's page, and routes downloads to
// the configured directory.
func (s *Session) Start(ctx context.Context) error {
	l := launcher.New().Headless(s.cfg.Headless)
	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch chrome: %w", err)
	}

	br := rod.New().ControlURL(controlURL).Context(ctx)
	if err := br.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := br.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = br.Close()
		return fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.GetViewportWidth(),
		Height:            s.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		s.log.Warn("failed to set viewport", zap.Error(err))
	}

	if s.cfg.DownloadDir != "" {
		if err := (proto.BrowserSetDownloadBehavior{
			Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath: s.cfg.DownloadDir,
		}).Call(page); err != nil {
			_ = br.Close()
			return fmt.Errorf("set download directory: %w", err)
		}
	}

	s.launcher = l
	s.browser = br
	s.page = page
	return nil
}

// Close shuts down the page, the browser, and the launched process.
func (s *Session) Close() error {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return err
}

// Navigate loads a URL and waits for the load event.
func (s *Session) Navigate(url string) error {
	p := s.page.Timeout(s.cfg.NavigationTimeout())
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return p.WaitLoad()
}

// isXPath reports whether a selector uses XPath syntax. The portal
// selector maps historically use XPath; CSS is also accepted. A "./"
// prefix is a relative XPath, distinct from a CSS class selector.
func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") ||
		strings.HasPrefix(selector, "(") ||
		strings.HasPrefix(selector, "./")
}

// Element probes for a single element without waiting.
func (s *Session) Element(selector string) (Element, bool) {
	var (
		has bool
		el  *rod.Element
		err error
	)
	if isXPath(selector) {
		has, el, err = s.page.HasX(selector)
	} else {
		has, el, err = s.page.Has(selector)
	}
	if err != nil || !has {
		return nil, false
	}
	return &pageElement{el: el}, true
}

// Elements returns all current matches without waiting.
func (s *Session) Elements(selector string) []Element {
	var (
		els rod.Elements
		err error
	)
	if isXPath(selector) {
		els, err = s.page.ElementsX(selector)
	} else {
		els, err = s.page.Elements(selector)
	}
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &pageElement{el: el})
	}
	return out
}

// WaitVisible blocks until the selector is present and visible.
func (s *Session) WaitVisible(selector string, timeout time.Duration) (Element, error) {
	p := s.page.Timeout(timeout)
	var (
		el  *rod.Element
		err error
	)
	if isXPath(selector) {
		el, err = p.ElementX(selector)
	} else {
		el, err = p.Element(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("wait visible %q: %w", selector, err)
	}
	return &pageElement{el: el}, nil
}

// Blur removes focus from the active element.
func (s *Session) Blur() error {
	_, err := s.page.Eval(`() => { if (document.activeElement) document.activeElement.blur(); }`)
	return err
}

type pageElement struct {
	el *rod.Element
}

func (e *pageElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *pageElement) Input(text string) error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Input(text)
}

func (e *pageElement) Text() (string, error) {
	return e.el.Text()
}

func (e *pageElement) Element(selector string) (Element, bool) {
	var (
		has bool
		el  *rod.Element
		err error
	)
	if isXPath(selector) {
		has, el, err = e.el.HasX(selector)
	} else {
		has, el, err = e.el.Has(selector)
	}
	if err != nil || !has {
		return nil, false
	}
	return &pageElement{el: el}, true
}

func (e *pageElement) Elements(selector string) []Element {
	var (
		els rod.Elements
		err error
	)
	if isXPath(selector) {
		els, err = e.el.ElementsX(selector)
	} else {
		els, err = e.el.Elements(selector)
	}
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &pageElement{el: el})
	}
	return out
}
