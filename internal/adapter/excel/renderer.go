package excel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
	"github.com/couchcryptid/covid-metrics-etl/internal/pipeline"
)

// WorkbookName is the report file written into the output directory.
const WorkbookName = "covid_report.xlsx"

// Renderer writes a run's tables into one xlsx workbook, one sheet per
// table. It implements pipeline.Renderer.
type Renderer struct {
	path   string
	logger *slog.Logger
}

// NewRenderer creates a workbook renderer targeting outputDir.
func NewRenderer(outputDir string, logger *slog.Logger) *Renderer {
	return &Renderer{path: filepath.Join(outputDir, WorkbookName), logger: logger}
}

// Render writes the processed, incidence, growth, and profile sheets.
func (r *Renderer) Render(_ context.Context, result pipeline.Result) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // resources released on SaveAs failure too

	sheets := []struct {
		name  string
		table domain.Frame
	}{
		{"processed", result.Tables.Processed},
		{"incidence_7d", result.Tables.Incidence},
		{"growth_factor_7d", result.Tables.Growth},
		{"profile", result.Tables.Profile},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.table); err != nil {
			return fmt.Errorf("write sheet %s: %w", s.name, err)
		}
	}

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	r.logger.Info("workbook written", "path", r.path, "run_id", result.Report.RunID)
	return nil
}

func writeSheet(f *excelize.File, sheet string, table domain.Frame) error {
	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		cells := make([]any, len(row))
		for j, raw := range row {
			cells[j] = typedCell(raw)
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
			return err
		}
	}
	return nil
}

// typedCell stores numeric cells as numbers so spreadsheet formulas work on
// them; everything else stays text.
func typedCell(raw string) any {
	if raw == "" {
		return nil
	}
	if v := domain.Number(raw); !domain.Missing(v) {
		return v
	}
	return raw
}
