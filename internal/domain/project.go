package domain

import (
	"strconv"
	"time"
)

// The projector shapes engine outputs into named tables for the renderers.
// Pure column selection and formatting; no computation happens here.

// ProcessedTable projects processed records into the canonical column order.
func ProcessedTable(records []Record) Frame {
	f := Frame{Columns: []string{FieldLocation, FieldDate, FieldNewCases, FieldPeopleVaccinated, FieldPopulation}}
	for _, r := range records {
		f.Rows = append(f.Rows, []string{
			r.Location,
			formatDay(r.Date),
			formatNumber(r.NewCases),
			formatNumber(r.PeopleVaccinated),
			formatNumber(r.Population),
		})
	}
	return f
}

// IncidenceTable projects incidence rows as (date, location, incidence_7d).
func IncidenceTable(rows []IncidenceRow) Frame {
	f := Frame{Columns: []string{FieldDate, FieldLocation, FieldIncidence7d}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []string{formatDay(r.Date), r.Location, formatNumber(r.Incidence7d)})
	}
	return f
}

// GrowthTable projects growth rows as (week_end, location, weekly_cases,
// growth_factor_7d). The date column is the end of the trailing week, named
// accordingly.
func GrowthTable(rows []GrowthRow) Frame {
	f := Frame{Columns: []string{FieldWeekEnd, FieldLocation, FieldWeeklyCases, FieldGrowthFactor7d}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []string{
			formatDay(r.WeekEnd),
			r.Location,
			formatNumber(r.WeeklyCases),
			formatNumber(r.GrowthFactor7d),
		})
	}
	return f
}

// formatNumber renders a float deterministically; the missing marker renders
// as the empty cell. 'g' keeps integers free of trailing zeros so repeated
// runs serialize byte-identical tables.
func formatNumber(v float64) string {
	if Missing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
