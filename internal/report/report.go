// Package report writes the per-run audit log and the console summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"ecasharvest/internal/calendar"
	"ecasharvest/internal/harvest"
)

// header is the audit-log column order. Downstream spreadsheets key on
// these exact captions.
var header = table.Row{
	"A-Number",
	"Document Label (ECAS)",
	"Pleading Name (pg1)",
	"Filing Date (ECAS)",
	"Relevant Dates (extracted)",
	"Filename (final)",
	"Pages",
}

// Writer produces audit logs in Dir.
type Writer struct {
	Dir string
	Log *zap.Logger
}

// NewWriter creates a report writer for dir.
func NewWriter(dir string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{Dir: dir, Log: log}
}

// Write renders the records as CSV named after the harvested range and
// returns the file's path. An empty record set still produces a file
// with the header row, so every run leaves an audit trail.
func (w *Writer) Write(rng calendar.DateRange, records []harvest.LogRecord) (string, error) {
	t := table.NewWriter()
	// Downstream tooling matches the captions verbatim; keep their case.
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(header)
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.ANumber,
			rec.DocumentLabel,
			rec.PleadingTitle,
			rec.FilingDate,
			rec.RelevantDates,
			filepath.Base(rec.FinalFilename),
			rec.Pages,
		})
	}

	name := fmt.Sprintf("ecas_download_log_%s_%s.csv",
		rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte(t.RenderCSV()+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write audit log: %w", err)
	}
	w.Log.Info("audit log written",
		zap.String("path", path),
		zap.Int("records", len(records)))
	return path, nil
}

// Summarize renders a console table of the harvested records.
func Summarize(records []harvest.LogRecord) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"A-Number", "Document", "Filed", "Pages", "File"})
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.ANumber,
			rec.DocumentLabel,
			rec.FilingDate,
			rec.Pages,
			filepath.Base(rec.FinalFilename),
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}
