// Package run sequences a full harvest: login, calendar traversal,
// per-case document harvesting, the audit log, and run history.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecasharvest/internal/calendar"
	"ecasharvest/internal/harvest"
	"ecasharvest/internal/portal"
	"ecasharvest/internal/report"
	"ecasharvest/internal/store"
)

// Traverser yields the in-range case IDs from the hearing calendar.
type Traverser interface {
	Run(rng calendar.DateRange) ([]string, calendar.Stats)
}

// CaseHarvester downloads and classifies one case's documents.
type CaseHarvester interface {
	HarvestCase(ctx context.Context, anumber string) ([]harvest.RowResult, error)
}

// Orchestrator owns the full pipeline. Store may be nil to disable run
// history.
type Orchestrator struct {
	Portal    *portal.Client
	Traversal Traverser
	Harvester CaseHarvester
	Report    *report.Writer
	Store     *store.Store
	Log       *zap.Logger
}

// Params are the per-run inputs.
type Params struct {
	PortalURL string
	Email     string
	Password  string
	Range     calendar.DateRange
}

// Summary is what a completed run produced.
type Summary struct {
	RunID       string
	CaseIDs     []string
	Records     []harvest.LogRecord
	RowsSkipped int
	Traversal   calendar.Stats
	ReportPath  string
}

// Execute runs the pipeline end to end. A case whose harvest fails is
// logged and skipped; the run carries on with the remaining cases.
func (o *Orchestrator) Execute(ctx context.Context, p Params) (*Summary, error) {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	sum := &Summary{RunID: uuid.NewString()}
	log.Info("harvest run starting",
		zap.String("run_id", sum.RunID),
		zap.String("range_start", p.Range.Start.Format("2006-01-02")),
		zap.String("range_end", p.Range.End.Format("2006-01-02")))

	if err := o.Portal.Login(p.PortalURL, p.Email, p.Password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := o.Portal.GotoCalendar(); err != nil {
		return nil, fmt.Errorf("open calendar: %w", err)
	}

	sum.CaseIDs, sum.Traversal = o.Traversal.Run(p.Range)
	log.Info("calendar traversed",
		zap.Int("cases", len(sum.CaseIDs)),
		zap.Int("pages", sum.Traversal.PagesVisited),
		zap.Int("cells_skipped", sum.Traversal.CellsSkipped))

	for _, id := range sum.CaseIDs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		results, err := o.Harvester.HarvestCase(ctx, id)
		if err != nil {
			log.Warn("case harvest failed", zap.String("anumber", id), zap.Error(err))
		}
		for _, res := range results {
			if res.Skipped() {
				sum.RowsSkipped++
				continue
			}
			sum.Records = append(sum.Records, *res.Record)
		}
	}

	path, err := o.Report.Write(p.Range, sum.Records)
	if err != nil {
		return sum, err
	}
	sum.ReportPath = path

	if o.Store != nil {
		if err := o.saveHistory(p, sum); err != nil {
			// History is advisory; the harvest itself succeeded.
			log.Warn("run history not saved", zap.Error(err))
		}
	}

	log.Info("harvest run complete",
		zap.String("run_id", sum.RunID),
		zap.Int("documents", len(sum.Records)),
		zap.Int("rows_skipped", sum.RowsSkipped),
		zap.String("report", sum.ReportPath))
	return sum, nil
}

func (o *Orchestrator) saveHistory(p Params, sum *Summary) error {
	return o.Store.SaveRun(store.Run{
		ID:         sum.RunID,
		StartedAt:  time.Now().UTC(),
		RangeStart: p.Range.Start.Format("2006-01-02"),
		RangeEnd:   p.Range.End.Format("2006-01-02"),
		Cases:      len(sum.CaseIDs),
		Documents:  len(sum.Records),
		Skipped:    sum.RowsSkipped,
		ReportPath: sum.ReportPath,
	}, sum.Records)
}
