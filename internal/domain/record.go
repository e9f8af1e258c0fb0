package domain

import (
	"fmt"
	"strings"
	"time"
)

// RequiredFields are the canonical columns the engine cannot run without.
var RequiredFields = []string{FieldLocation, FieldDate, FieldNewCases, FieldPeopleVaccinated, FieldPopulation}

// MissingColumnsError is the structural failure raised when required
// canonical columns cannot be resolved after normalization. It is fatal for
// the run and reported before any computation proceeds.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns after normalization: %s", strings.Join(e.Columns, ", "))
}

// Record is one processed observation: a country-day with its daily case
// count, cumulative vaccination count, and population. Immutable once built.
type Record struct {
	Location         string
	Date             time.Time
	NewCases         float64
	PeopleVaccinated float64
	Population       float64
}

// BuildRecords turns a normalized frame into processed records. It coerces
// numerics, drops rows missing new_cases or people_vaccinated, dedupes
// (location, date) keeping the first occurrence, and filters to the given
// country list, preserving input row order throughout. Returns
// MissingColumnsError before touching any row when a required column is
// absent.
func BuildRecords(f Frame, countries []string) ([]Record, error) {
	if missing := f.MissingColumns(RequiredFields...); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	wanted := make(map[string]bool, len(countries))
	for _, c := range countries {
		wanted[c] = true
	}

	seen := make(map[string]bool)
	records := make([]Record, 0, len(f.Rows))
	for i := range f.Rows {
		newCases := Number(f.Cell(i, FieldNewCases))
		vaccinated := Number(f.Cell(i, FieldPeopleVaccinated))
		if Missing(newCases) || Missing(vaccinated) {
			continue
		}

		location := f.Cell(i, FieldLocation)
		rawDate := f.Cell(i, FieldDate)
		key := location + "\x00" + rawDate
		if seen[key] {
			continue
		}
		seen[key] = true

		if !wanted[location] {
			continue
		}

		records = append(records, Record{
			Location:         location,
			Date:             Day(rawDate),
			NewCases:         newCases,
			PeopleVaccinated: vaccinated,
			Population:       Number(f.Cell(i, FieldPopulation)),
		})
	}
	return records, nil
}
