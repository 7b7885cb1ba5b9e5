package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecasharvest/internal/calendar"
	"ecasharvest/internal/harvest"
)

func testRange(t *testing.T) calendar.DateRange {
	t.Helper()
	rng, err := calendar.NewDateRange(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return rng
}

func TestWrite_NamesFileAfterRange(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	records := []harvest.LogRecord{{
		ANumber:       "123456789",
		DocumentLabel: "Order of the Immigration Judge",
		PleadingTitle: "ORDER OF THE IMMIGRATION JUDGE",
		FilingDate:    "03-05-2024",
		RelevantDates: "HEARING 04-01-2024",
		FinalFilename: "/out/Order of the Immigration Judge - 03-05-2024.pdf",
		Pages:         2,
	}}

	path, err := w.Write(testRange(t), records)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "ecas_download_log_2024-03-01_2024-03-31.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "A-Number,Document Label (ECAS),Pleading Name (pg1),Filing Date (ECAS),Relevant Dates (extracted),Filename (final),Pages")
	assert.Contains(t, content, "123456789")
	assert.Contains(t, content, "HEARING 04-01-2024")
	// Only the basename lands in the log.
	assert.NotContains(t, content, "/out/")
}

func TestWrite_EmptyRunStillLeavesAuditTrail(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.Write(testRange(t), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "A-Number")
}

func TestSummarize(t *testing.T) {
	out := Summarize([]harvest.LogRecord{{
		ANumber:       "123456789",
		DocumentLabel: "Motion to Continue",
		FilingDate:    "03-05-2024",
		Pages:         3,
		FinalFilename: "/out/Motion to Continue - 03-05-2024.pdf",
	}})
	assert.Contains(t, out, "123456789")
	assert.Contains(t, out, "Motion to Continue - 03-05-2024.pdf")
}
