package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
	"github.com/couchcryptid/covid-metrics-etl/internal/pipeline"
)

// Renderer writes one line chart per indicator, one series per country.
// It implements pipeline.Renderer.
type Renderer struct {
	dir    string
	logger *slog.Logger
}

// NewRenderer creates a chart renderer targeting outputDir/plots.
func NewRenderer(outputDir string, logger *slog.Logger) *Renderer {
	return &Renderer{dir: filepath.Join(outputDir, "plots"), logger: logger}
}

// Render writes incidence_7d.html and growth_factor_7d.html.
func (r *Renderer) Render(_ context.Context, result pipeline.Result) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create plots dir: %w", err)
	}

	if err := r.writeLineChart(
		"7-day incidence per 100k",
		result.Tables.Incidence, domain.FieldDate, domain.FieldIncidence7d,
		filepath.Join(r.dir, "incidence_7d.html"),
	); err != nil {
		return err
	}

	return r.writeLineChart(
		"7-day growth factor",
		result.Tables.Growth, domain.FieldWeekEnd, domain.FieldGrowthFactor7d,
		filepath.Join(r.dir, "growth_factor_7d.html"),
	)
}

func (r *Renderer) writeLineChart(title string, table domain.Frame, xField, yField string, path string) error {
	xs, series := seriesByLocation(table, xField, yField)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xs)

	locations := make([]string, 0, len(series))
	for location := range series {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	for _, location := range locations {
		line.AddSeries(location, series[location])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close() //nolint:errcheck // flushed by Render below

	if err := line.Render(f); err != nil {
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	r.logger.Info("chart written", "path", path)
	return nil
}

// seriesByLocation pivots a projected table into chart input: the sorted
// distinct x values, and per location one data point per x value with gaps
// left empty.
func seriesByLocation(table domain.Frame, xField, yField string) ([]string, map[string][]opts.LineData) {
	xSet := make(map[string]bool)
	values := make(map[string]map[string]string)
	for i := range table.Rows {
		x := table.Cell(i, xField)
		location := table.Cell(i, domain.FieldLocation)
		xSet[x] = true
		if values[location] == nil {
			values[location] = make(map[string]string)
		}
		values[location][x] = table.Cell(i, yField)
	}

	xs := make([]string, 0, len(xSet))
	for x := range xSet {
		xs = append(xs, x)
	}
	sort.Strings(xs)

	series := make(map[string][]opts.LineData, len(values))
	for location, byX := range values {
		points := make([]opts.LineData, len(xs))
		for i, x := range xs {
			cell, ok := byX[x]
			if !ok || cell == "" {
				points[i] = opts.LineData{Value: nil}
				continue
			}
			points[i] = opts.LineData{Value: domain.Number(cell)}
		}
		series[location] = points
	}
	return xs, series
}
