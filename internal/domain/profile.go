package domain

import (
	"fmt"
	"time"
)

// ProfileTable summarizes a normalized frame as a (field, value) table for
// manual inspection: per-column inferred kind, new_cases extremes, null
// percentages for the critical metrics, and date coverage. Sections whose
// columns are absent are skipped rather than reported as errors.
func ProfileTable(f Frame) Frame {
	out := Frame{Columns: []string{"field", "value"}}
	add := func(field, value string) {
		out.Rows = append(out.Rows, []string{field, value})
	}

	for _, c := range f.Columns {
		add("column:"+c, inferKind(f, c))
	}

	if f.HasColumn(FieldNewCases) {
		min, max, defined := columnExtremes(f, FieldNewCases)
		if defined > 0 {
			add("new_cases_min", formatNumber(min))
			add("new_cases_max", formatNumber(max))
		}
		add("pct_null_new_cases", fmt.Sprintf("%.2f", pctNull(f, FieldNewCases)))
	}
	if f.HasColumn(FieldPeopleVaccinated) {
		add("pct_null_people_vaccinated", fmt.Sprintf("%.2f", pctNull(f, FieldPeopleVaccinated)))
	}

	if f.HasColumn(FieldDate) {
		var minDate, maxDate time.Time
		for i := range f.Rows {
			d := Day(f.Cell(i, FieldDate))
			if d.IsZero() {
				continue
			}
			if minDate.IsZero() || d.Before(minDate) {
				minDate = d
			}
			if d.After(maxDate) {
				maxDate = d
			}
		}
		add("date_min", formatDay(minDate))
		add("date_max", formatDay(maxDate))
	}

	return out
}

// inferKind samples a column's cells: "date" when every non-empty cell
// parses as an ISO day, "numeric" when every non-empty cell parses as a
// number, "empty" when nothing is there, "text" otherwise.
func inferKind(f Frame, col string) string {
	numeric, date, nonEmpty := true, true, 0
	for i := range f.Rows {
		cell := f.Cell(i, col)
		if cell == "" {
			continue
		}
		nonEmpty++
		if Missing(Number(cell)) {
			numeric = false
		}
		if Day(cell).IsZero() {
			date = false
		}
	}
	switch {
	case nonEmpty == 0:
		return "empty"
	case date:
		return "date"
	case numeric:
		return "numeric"
	default:
		return "text"
	}
}

func columnExtremes(f Frame, col string) (min, max float64, defined int) {
	for i := range f.Rows {
		v := Number(f.Cell(i, col))
		if Missing(v) {
			continue
		}
		if defined == 0 || v < min {
			min = v
		}
		if defined == 0 || v > max {
			max = v
		}
		defined++
	}
	return min, max, defined
}

func pctNull(f Frame, col string) float64 {
	if len(f.Rows) == 0 {
		return 0
	}
	nulls := 0
	for i := range f.Rows {
		if Missing(Number(f.Cell(i, col))) {
			nulls++
		}
	}
	return float64(nulls) / float64(len(f.Rows)) * 100
}
