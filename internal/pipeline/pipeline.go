package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
	"github.com/couchcryptid/covid-metrics-etl/internal/observability"
)

// Fetcher retrieves the raw tabular dataset.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.Frame, error)
}

// Renderer persists the output tables of a completed run (workbook, charts).
type Renderer interface {
	Render(ctx context.Context, result Result) error
}

// Reporter hands the run report to an external consumer (Kafka topic).
type Reporter interface {
	Publish(ctx context.Context, report Report) error
}

// Tables are the projected output tables of a run.
type Tables struct {
	Processed domain.Frame
	Incidence domain.Frame
	Growth    domain.Frame
	Profile   domain.Frame
}

// Report summarizes one run: identity, timing, row counts, and the ordered
// validation outcome list.
type Report struct {
	RunID         string           `json:"run_id"`
	StartedAt     time.Time        `json:"started_at"`
	FinishedAt    time.Time        `json:"finished_at"`
	Status        domain.RunStatus `json:"status"`
	RowsFetched   int              `json:"rows_fetched"`
	RowsProcessed int              `json:"rows_processed"`
	IncidenceRows int              `json:"incidence_rows"`
	GrowthRows    int              `json:"growth_rows"`
	Outcomes      []domain.Outcome `json:"outcomes"`
}

// Result is the full product of a run handed to renderers.
type Result struct {
	Report Report
	Tables Tables
}

// Pipeline orchestrates one batch run: fetch, normalize, validate, derive,
// gate, project, render, report.
type Pipeline struct {
	fetcher   Fetcher
	renderers []Renderer
	reporter  Reporter
	aliases   []domain.FieldAliases
	countries []string
	logger    *slog.Logger
	metrics   *observability.Metrics

	ready atomic.Bool
	mu    sync.Mutex
	last  *Report
}

// New creates a Pipeline. reporter may be nil when report publishing is
// disabled; renderers may be empty (validate-only runs).
func New(fetcher Fetcher, renderers []Renderer, reporter Reporter, aliases []domain.FieldAliases, countries []string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		renderers: renderers,
		reporter:  reporter,
		aliases:   aliases,
		countries: countries,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed and passed
// the quality gate.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no run has passed the quality gate yet")
	}
	return nil
}

// LastReport returns the most recent run report, if any run has finished.
func (p *Pipeline) LastReport() (Report, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return Report{}, false
	}
	return *p.last, true
}

// RunOnce executes one complete batch run. A blocked quality gate is not an
// error: the report carries the blocked status and the caller decides what
// to do with it. Errors mean the run could not complete at all (fetch
// failure, structural column failure, renderer failure).
func (p *Pipeline) RunOnce(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With("run_id", report.RunID)

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	start := time.Now()

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("fetch dataset: %w", err)
	}
	report.RowsFetched = len(raw.Rows)
	p.metrics.RowsFetched.Set(float64(len(raw.Rows)))
	logger.Info("dataset fetched", "rows", len(raw.Rows), "columns", len(raw.Columns))

	normalized := domain.Normalize(raw, p.aliases)
	report.Outcomes = domain.RunInputChecks(normalized)

	if gate := domain.EvaluateGate(report.Outcomes); !gate.Proceed() {
		return p.finishBlocked(ctx, logger, report, gate, start)
	}

	records, err := domain.BuildRecords(normalized, p.countries)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return report, err
	}
	report.RowsProcessed = len(records)
	p.metrics.RowsProcessed.Set(float64(len(records)))

	incidence := domain.ComputeIncidence(records)
	growth := domain.ComputeGrowth(records)
	report.IncidenceRows = len(incidence)
	report.GrowthRows = len(growth)
	logger.Info("metrics derived",
		"processed_rows", len(records),
		"incidence_rows", len(incidence),
		"growth_rows", len(growth),
	)

	tables := Tables{
		Processed: domain.ProcessedTable(records),
		Incidence: domain.IncidenceTable(incidence),
		Growth:    domain.GrowthTable(growth),
		Profile:   domain.ProfileTable(normalized),
	}
	report.Outcomes = append(report.Outcomes, domain.RunOutputChecks(tables.Incidence, tables.Growth)...)

	gate := domain.EvaluateGate(report.Outcomes)
	p.observeOutcomes(report.Outcomes)
	if !gate.Proceed() {
		return p.finishBlocked(ctx, logger, report, gate, start)
	}
	for _, w := range gate.Warnings {
		logger.Warn("quality check warning", "check", w.Check, "findings", w.Findings, "detail", w.Description)
	}

	for _, r := range p.renderers {
		if err := r.Render(ctx, Result{Report: report, Tables: tables}); err != nil {
			p.metrics.RunsTotal.WithLabelValues("error").Inc()
			return report, fmt.Errorf("render output: %w", err)
		}
	}

	report.Status = gate.Status
	report.FinishedAt = time.Now().UTC()
	p.finish(ctx, logger, report, start)
	p.ready.Store(true)
	logger.Info("run complete", "status", report.Status, "duration", time.Since(start))
	return report, nil
}

// finishBlocked records a run stopped by the quality gate. The run report is
// still published in full so the alerting side sees what failed.
func (p *Pipeline) finishBlocked(ctx context.Context, logger *slog.Logger, report Report, gate domain.GateResult, start time.Time) (Report, error) {
	for _, f := range gate.Failures {
		logger.Error("blocking quality check failed", "check", f.Check, "findings", f.Findings, "detail", f.Description)
	}
	report.Status = domain.StatusBlocked
	report.FinishedAt = time.Now().UTC()
	p.observeOutcomes(report.Outcomes)
	p.finish(ctx, logger, report, start)
	logger.Warn("run blocked by quality gate", "failed_checks", len(gate.Failures))
	return report, nil
}

func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, report Report, start time.Time) {
	p.metrics.RunsTotal.WithLabelValues(string(report.Status)).Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunTimestamp.Set(float64(report.FinishedAt.Unix()))

	p.mu.Lock()
	p.last = &report
	p.mu.Unlock()

	if p.reporter == nil {
		return
	}
	if err := p.reporter.Publish(ctx, report); err != nil {
		logger.Warn("publish run report failed", "error", err)
	}
}

func (p *Pipeline) observeOutcomes(outcomes []domain.Outcome) {
	for _, o := range outcomes {
		p.metrics.CheckFindings.WithLabelValues(o.Check).Set(float64(o.Findings))
		if !o.Passed {
			p.metrics.ChecksFailed.WithLabelValues(o.Check, string(o.Severity)).Inc()
		}
	}
}
