package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical input field names produced by Normalize and consumed by the rest
// of the engine.
const (
	FieldLocation         = "location"
	FieldDate             = "date"
	FieldNewCases         = "new_cases"
	FieldPeopleVaccinated = "people_vaccinated"
	FieldPopulation       = "population"
)

// Derived field names surfaced by the projector.
const (
	FieldIncidence7d    = "incidence_7d"
	FieldWeekEnd        = "week_end"
	FieldWeeklyCases    = "weekly_cases"
	FieldGrowthFactor7d = "growth_factor_7d"
)

// DateLayout is the ISO day format used by the OWID dataset and by every
// projected table.
const DateLayout = "2006-01-02"

// Frame is an ordered tabular record set: column names plus rows of raw
// string cells. It is the currency between the fetcher, the normalizer, the
// checks, and the projector. Cells keep their source text; numeric and date
// interpretation happens at the point of use via Number and Day.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of name in f.Columns, or -1.
func (f Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the frame carries the named column.
func (f Frame) HasColumn(name string) bool { return f.ColumnIndex(name) != -1 }

// MissingColumns returns the subset of names not present in the frame,
// preserving the order given.
func (f Frame) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !f.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Cell returns the raw cell at row i of the named column. Absent columns and
// rows shorter than the header read as the empty string.
func (f Frame) Cell(i int, name string) string {
	col := f.ColumnIndex(name)
	if col == -1 || i < 0 || i >= len(f.Rows) || col >= len(f.Rows[i]) {
		return ""
	}
	return f.Rows[i][col]
}

// Number coerces a cell to float64. Anything that does not parse, including
// the empty cell, becomes NaN, the engine's missing marker. Coercion never
// errors; null-aware consumers own the handling.
func Number(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Missing reports whether v is the missing marker.
func Missing(v float64) bool { return math.IsNaN(v) }

// Day parses a cell as an ISO calendar date. The zero time is the missing
// marker for dates.
func Day(cell string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(cell))
	if err != nil {
		return time.Time{}
	}
	return t
}
