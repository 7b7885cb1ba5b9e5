// Package config loads run configuration and the portal selector map.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ecasharvest/internal/browser"
)

// DefaultPortalURL is the EOIR respondent-access portal.
const DefaultPortalURL = "https://portal.eoir.justice.gov/"

// Config holds all harvester configuration.
type Config struct {
	// PortalURL is the login entry point.
	PortalURL string `yaml:"portal_url"`

	// Browser configures the Chrome session.
	Browser browser.Config `yaml:"browser"`

	// Harvest configures download handling and traversal bounds.
	Harvest HarvestConfig `yaml:"harvest"`

	// SelectorsPath points at the JSON selector map.
	SelectorsPath string `yaml:"selectors_path"`

	// HistoryDB is the SQLite run-history database path. Empty disables
	// run history.
	HistoryDB string `yaml:"history_db"`
}

// HarvestConfig configures download handling and traversal bounds.
type HarvestConfig struct {
	// DownloadDir receives downloaded and renamed documents.
	DownloadDir string `yaml:"download_dir"`

	// DownloadTimeoutSec bounds the wait for a triggered download.
	DownloadTimeoutSec int `yaml:"download_timeout_sec"`

	// PollIntervalMs is the download-directory polling interval.
	PollIntervalMs int `yaml:"poll_interval_ms"`

	// MaxMonths bounds calendar page advances.
	MaxMonths int `yaml:"max_months"`

	// WaitTimeoutSec bounds waits for required portal elements.
	WaitTimeoutSec int `yaml:"wait_timeout_sec"`

	// SettleMs is the pause after interactions that re-render the page
	// without a load event.
	SettleMs int `yaml:"settle_ms"`
}

// DownloadTimeout returns the bounded download wait.
func (c HarvestConfig) DownloadTimeout() time.Duration {
	if c.DownloadTimeoutSec == 0 {
		return 120 * time.Second
	}
	return time.Duration(c.DownloadTimeoutSec) * time.Second
}

// PollInterval returns the download polling interval.
func (c HarvestConfig) PollInterval() time.Duration {
	if c.PollIntervalMs == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// MaxPages returns the calendar page-advance bound.
func (c HarvestConfig) MaxPages() int {
	if c.MaxMonths == 0 {
		return 60
	}
	return c.MaxMonths
}

// WaitTimeout returns the required-element wait bound.
func (c HarvestConfig) WaitTimeout() time.Duration {
	if c.WaitTimeoutSec == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.WaitTimeoutSec) * time.Second
}

// Settle returns the post-interaction render pause.
func (c HarvestConfig) Settle() time.Duration {
	if c.SettleMs == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.SettleMs) * time.Millisecond
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PortalURL:     DefaultPortalURL,
		Browser:       browser.DefaultConfig(),
		SelectorsPath: "selectors.json",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
