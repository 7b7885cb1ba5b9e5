package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecasharvest/internal/browser/browsertest"
	"ecasharvest/internal/config"
	"ecasharvest/internal/portal"
)

func testSelectors() *config.Selectors {
	sel := &config.Selectors{}
	sel.Nav.CalendarTab = "nav.calendar"
	sel.Nav.CasesTab = "nav.cases"
	sel.CaseSearch.ANumberInput = "search.input"
	sel.CaseSearch.SearchBtn = "search.btn"
	sel.CaseSearch.OpenCase = "search.open"
	sel.CaseDocs.DocumentsTab = "docs.tab"
	sel.CaseDocs.TableRows = "docs.row"
	sel.CaseDocs.ColLabel = "docs.col-label"
	sel.CaseDocs.ColDate = "docs.col-date"
	sel.CaseDocs.DownloadBtn = "docs.download"
	return sel
}

func testHarvestConfig() config.HarvestConfig {
	return config.HarvestConfig{
		DownloadTimeoutSec: 1,
		PollIntervalMs:     10,
		WaitTimeoutSec:     1,
		SettleMs:           1,
	}
}

// writePDF writes a minimal one-page PDF carrying text, with a correct
// cross-reference table built from the rendered offsets.
func writePDF(t *testing.T, path, text string) {
	t.Helper()
	stream := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", text)
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func docRow(sel *config.Selectors, label, date string, btn *browsertest.Node) *browsertest.Node {
	children := []*browsertest.Node{
		{Sel: sel.CaseDocs.ColLabel, TextVal: label},
		{Sel: sel.CaseDocs.ColDate, TextVal: date},
	}
	if btn != nil {
		btn.Sel = sel.CaseDocs.DownloadBtn
		children = append(children, btn)
	}
	return &browsertest.Node{Sel: sel.CaseDocs.TableRows, Children: children}
}

func testPortal(drv *browsertest.Driver, sel *config.Selectors) *portal.Client {
	timing := portal.Timing{Wait: 100 * time.Millisecond, Settle: 0, Poll: 10 * time.Millisecond}
	return portal.NewClient(drv, sel, timing, nil)
}

func TestHarvestCase_RowFailureDoesNotStopTheRun(t *testing.T) {
	dir := t.TempDir()
	sel := testSelectors()

	good := &browsertest.Node{OnClick: func() error {
		writePDF(t, filepath.Join(dir, "download.pdf"), "MOTION TO CONTINUE")
		return nil
	}}
	stuck := &browsertest.Node{} // click never produces a file
	order := &browsertest.Node{OnClick: func() error {
		writePDF(t, filepath.Join(dir, "download.pdf"), "ORDER OF THE IMMIGRATION JUDGE")
		return nil
	}}

	drv := &browsertest.Driver{Page: []*browsertest.Node{
		{Sel: sel.Nav.CasesTab},
		{Sel: sel.CaseSearch.ANumberInput},
		{Sel: sel.CaseSearch.SearchBtn},
		{Sel: sel.CaseSearch.OpenCase},
		{Sel: sel.CaseDocs.DocumentsTab},
		docRow(sel, "Info Sheet", "3/1/2024", nil), // no download control
		docRow(sel, "Motion to Continue", "3/5/2024", good),
		docRow(sel, "Notice of Hearing", "3/7/2024", stuck),
		docRow(sel, "Order of the Immigration Judge", "3/9/2024", order),
	}}

	h := NewHarvester(drv, sel, testPortal(drv, sel), NewWatcher(dir, 10*time.Millisecond, nil), dir, testHarvestConfig(), nil)
	results, err := h.HarvestCase(context.Background(), "123456789")
	require.NoError(t, err)
	require.Len(t, results, 3)

	first := results[0]
	require.False(t, first.Skipped())
	assert.Equal(t, "123456789", first.Record.ANumber)
	assert.Equal(t, "Motion to Continue", first.Record.DocumentLabel)
	assert.Equal(t, "3/5/2024", first.Record.FilingDate)
	assert.Equal(t, 1, first.Record.Pages)
	assert.FileExists(t, first.Record.FinalFilename)
	assert.True(t, strings.HasPrefix(filepath.Base(first.Record.FinalFilename), "Motion to Continue - "))

	second := results[1]
	assert.True(t, second.Skipped())
	assert.Equal(t, skipDownloadWait, second.SkipReason)

	third := results[2]
	require.False(t, third.Skipped())
	assert.Equal(t, "Order of the Immigration Judge", third.Record.DocumentLabel)
	assert.FileExists(t, third.Record.FinalFilename)
	assert.NotEqual(t, first.Record.FinalFilename, third.Record.FinalFilename)
}

func TestHarvestCase_InvalidDownloadIsSkipped(t *testing.T) {
	dir := t.TempDir()
	sel := testSelectors()

	garbage := &browsertest.Node{OnClick: func() error {
		return os.WriteFile(filepath.Join(dir, "download.pdf"), []byte("not a pdf"), 0o644)
	}}
	drv := &browsertest.Driver{Page: []*browsertest.Node{
		{Sel: sel.Nav.CasesTab},
		{Sel: sel.CaseSearch.ANumberInput},
		{Sel: sel.CaseSearch.SearchBtn},
		{Sel: sel.CaseSearch.OpenCase},
		{Sel: sel.CaseDocs.DocumentsTab},
		docRow(sel, "Exhibit", "3/2/2024", garbage),
	}}

	h := NewHarvester(drv, sel, testPortal(drv, sel), NewWatcher(dir, 10*time.Millisecond, nil), dir, testHarvestConfig(), nil)
	results, err := h.HarvestCase(context.Background(), "987654321")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped())
	assert.Equal(t, skipInvalidPDF, results[0].SkipReason)
}

func TestHarvestCase_SearchFlowFailureIsAnError(t *testing.T) {
	sel := testSelectors()
	drv := &browsertest.Driver{Page: []*browsertest.Node{
		{Sel: sel.Nav.CasesTab},
		// No search input ever renders.
	}}

	h := NewHarvester(drv, sel, testPortal(drv, sel), NewWatcher(t.TempDir(), 10*time.Millisecond, nil), t.TempDir(), testHarvestConfig(), nil)
	_, err := h.HarvestCase(context.Background(), "123456789")
	assert.ErrorContains(t, err, "case search input")
}
