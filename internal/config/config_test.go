package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultPortalURL, cfg.PortalURL)
	assert.Equal(t, 120*time.Second, cfg.Harvest.DownloadTimeout())
	assert.Equal(t, 500*time.Millisecond, cfg.Harvest.PollInterval())
	assert.Equal(t, 60, cfg.Harvest.MaxPages())
	assert.Equal(t, 30*time.Second, cfg.Harvest.WaitTimeout())
	assert.True(t, cfg.Browser.Headless)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
portal_url: https://example.test/
browser:
  headless: false
  navigation_timeout_ms: 5000
harvest:
  download_dir: /tmp/out
  download_timeout_sec: 10
  max_months: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/", cfg.PortalURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Browser.NavigationTimeout())
	assert.Equal(t, "/tmp/out", cfg.Harvest.DownloadDir)
	assert.Equal(t, 10*time.Second, cfg.Harvest.DownloadTimeout())
	assert.Equal(t, 3, cfg.Harvest.MaxPages())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSelectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.json")
	content := `{
  "login": {"email": "//input[@id='email']", "password": "//input[@id='pwd']", "submit": "//button[@type='submit']"},
  "calendar": {"day_cells": ".day-cell", "month_next": "//button[@aria-label='Next']"},
  "hearing_popup": {"dialog": ".hearing-dialog", "close": ".hearing-dialog .close"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sel, err := LoadSelectors(path)
	require.NoError(t, err)
	assert.Equal(t, "//input[@id='email']", sel.Login.Email)
	assert.Equal(t, ".day-cell", sel.Calendar.DayCells)
	assert.Equal(t, ".hearing-dialog .close", sel.HearingPopup.Close)
	assert.Empty(t, sel.CaseDocs.DownloadBtn)
}
