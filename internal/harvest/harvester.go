// Package harvest downloads every available document for a case,
// classifies it, and renames it into its final audit-ready filename.
package harvest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"ecasharvest/internal/browser"
	"ecasharvest/internal/config"
	"ecasharvest/internal/extract"
	"ecasharvest/internal/filename"
	"ecasharvest/internal/pdftext"
	"ecasharvest/internal/portal"
)

// LogRecord is one successfully harvested document, one audit-log row.
// FilingDate carries the portal's text as-is; dates are normalized only
// inside the synthesized filename.
type LogRecord struct {
	ANumber       string
	DocumentLabel string
	PleadingTitle string
	FilingDate    string
	RelevantDates string
	FinalFilename string
	Pages         int
}

// RowResult is the typed outcome of one document row: either a record
// or a skip reason, never both.
type RowResult struct {
	Record     *LogRecord
	SkipReason string
}

// Skipped reports whether the row produced no record.
func (r RowResult) Skipped() bool { return r.Record == nil }

const (
	skipNoDownload   = "no download control"
	skipInvalidPDF   = "downloaded file is not a usable PDF"
	skipDownloadWait = "download did not complete"
)

// Harvester drives the per-case document flow.
type Harvester struct {
	drv     browser.Driver
	sel     *config.Selectors
	portal  *portal.Client
	watcher *Watcher
	dir     string
	log     *zap.Logger

	waitTimeout     time.Duration
	settle          time.Duration
	downloadTimeout time.Duration
}

// NewHarvester wires the harvester. dir is both Chrome's download
// target and the destination for renamed documents.
func NewHarvester(drv browser.Driver, sel *config.Selectors, p *portal.Client, watcher *Watcher, dir string, cfg config.HarvestConfig, log *zap.Logger) *Harvester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Harvester{
		drv:             drv,
		sel:             sel,
		portal:          p,
		watcher:         watcher,
		dir:             dir,
		log:             log,
		waitTimeout:     cfg.WaitTimeout(),
		settle:          cfg.Settle(),
		downloadTimeout: cfg.DownloadTimeout(),
	}
}

// HarvestCase opens the case's document table and processes every row
// in order. Row failures are recorded and skipped; only failures that
// prevent reaching the table at all are returned as errors.
func (h *Harvester) HarvestCase(ctx context.Context, anumber string) ([]RowResult, error) {
	if err := h.openDocuments(anumber); err != nil {
		return nil, err
	}

	rows := h.drv.Elements(h.sel.CaseDocs.TableRows)
	h.log.Info("document table opened",
		zap.String("anumber", anumber),
		zap.Int("rows", len(rows)))

	var results []RowResult
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := h.processRow(ctx, anumber, row)
		if res.Skipped() {
			if res.SkipReason == skipNoDownload {
				// Not every table row carries a document.
				h.log.Debug("row without download control",
					zap.String("anumber", anumber), zap.Int("row", i))
				continue
			}
			h.log.Warn("document skipped",
				zap.String("anumber", anumber),
				zap.Int("row", i),
				zap.String("reason", res.SkipReason))
		}
		results = append(results, res)
	}
	return results, nil
}

// openDocuments searches for the case and lands on its document table.
func (h *Harvester) openDocuments(anumber string) error {
	if err := h.portal.GotoCases(); err != nil {
		return err
	}

	input, err := h.drv.WaitVisible(h.sel.CaseSearch.ANumberInput, h.waitTimeout)
	if err != nil {
		return fmt.Errorf("case search input: %w", err)
	}
	if err := input.Input(anumber); err != nil {
		return fmt.Errorf("enter a-number: %w", err)
	}
	for _, step := range []struct {
		name string
		sel  string
	}{
		{"search", h.sel.CaseSearch.SearchBtn},
		{"open case", h.sel.CaseSearch.OpenCase},
		{"documents tab", h.sel.CaseDocs.DocumentsTab},
	} {
		el, err := h.drv.WaitVisible(step.sel, h.waitTimeout)
		if err != nil {
			return fmt.Errorf("%s control: %w", step.name, err)
		}
		if err := el.Click(); err != nil {
			return fmt.Errorf("click %s: %w", step.name, err)
		}
		time.Sleep(h.settle)
	}
	return nil
}

// processRow downloads one row's document and turns it into a record.
func (h *Harvester) processRow(ctx context.Context, anumber string, row browser.Element) RowResult {
	var label, fileDate string
	if cell, ok := row.Element(h.sel.CaseDocs.ColLabel); ok {
		label, _ = cell.Text()
		label = strings.TrimSpace(label)
	}
	if cell, ok := row.Element(h.sel.CaseDocs.ColDate); ok {
		fileDate, _ = cell.Text()
		fileDate = strings.TrimSpace(fileDate)
	}

	btns := row.Elements(h.sel.CaseDocs.DownloadBtn)
	if len(btns) == 0 {
		return RowResult{SkipReason: skipNoDownload}
	}

	before, err := h.watcher.Snapshot()
	if err != nil {
		return RowResult{SkipReason: err.Error()}
	}
	if err := btns[0].Click(); err != nil {
		return RowResult{SkipReason: fmt.Sprintf("trigger download: %v", err)}
	}
	path, err := h.watcher.WaitForNew(ctx, before, h.downloadTimeout)
	if err != nil {
		return RowResult{SkipReason: skipDownloadWait}
	}

	if !pdftext.Validate(path) {
		return RowResult{SkipReason: skipInvalidPDF}
	}

	firstPage := pdftext.FirstPageText(path)
	title := extract.ClassifyTitle(firstPage)

	// Relevant-date scanning only pays off for orders, where the body
	// sets hearings and deadlines.
	var notes string
	if strings.Contains(strings.ToUpper(label), "ORDER") {
		notes = extract.ExtractRelevantDates(firstPage)
	}

	final := filename.Resolve(h.dir, filename.Build(label, title, fileDate, notes))
	if err := os.Rename(path, final); err != nil {
		return RowResult{SkipReason: fmt.Sprintf("rename download: %v", err)}
	}

	rec := &LogRecord{
		ANumber:       anumber,
		DocumentLabel: label,
		PleadingTitle: title,
		FilingDate:    fileDate,
		RelevantDates: notes,
		FinalFilename: final,
		Pages:         pdftext.PageCount(final),
	}
	h.log.Info("document harvested",
		zap.String("anumber", anumber),
		zap.String("file", final),
		zap.Int("pages", rec.Pages))
	return RowResult{Record: rec}
}
