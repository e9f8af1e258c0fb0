package domain

import (
	"math"
	"sort"
	"time"
)

// windowSize is the fixed trailing window shared by both indicators. Windows
// slide over consecutive observations, not calendar days: a gap in a
// country's series shifts the window over the rows that exist.
const windowSize = 7

// incidenceScale expresses daily incidence per 100,000 inhabitants.
const incidenceScale = 100_000

// IncidenceRow is the 7-observation trailing mean of daily incidence per
// 100k for one country-day.
type IncidenceRow struct {
	Location    string
	Date        time.Time
	Incidence7d float64
}

// GrowthRow is the trailing weekly case sum and its week-over-week growth
// factor. WeekEnd is the date the trailing window closes on, which is why it
// is surfaced under its own name rather than as the record date.
type GrowthRow struct {
	Location       string
	WeekEnd        time.Time
	WeeklyCases    float64
	GrowthFactor7d float64
}

// ComputeIncidence derives the 7-observation trailing mean of daily
// incidence per 100k, each country computed independently. Daily incidence
// for a row with population 0 is undefined, never a division, and a row is
// emitted only when all 7 daily values in its window are defined: no
// partial-window mean leaks through, and an undefined day suppresses every
// window covering it.
func ComputeIncidence(records []Record) []IncidenceRow {
	var out []IncidenceRow
	for _, group := range groupByLocation(records) {
		daily := make([]float64, len(group))
		for i, r := range group {
			if r.Population == 0 || Missing(r.Population) || Missing(r.NewCases) {
				daily[i] = math.NaN()
				continue
			}
			daily[i] = r.NewCases / r.Population * incidenceScale
		}

		for i := windowSize - 1; i < len(group); i++ {
			sum, defined := 0.0, 0
			for j := i - windowSize + 1; j <= i; j++ {
				if Missing(daily[j]) {
					continue
				}
				sum += daily[j]
				defined++
			}
			if defined < windowSize {
				continue
			}
			out = append(out, IncidenceRow{
				Location:    group[i].Location,
				Date:        group[i].Date,
				Incidence7d: sum / windowSize,
			})
		}
	}
	return out
}

// ComputeGrowth derives the weekly case sum and week-over-week growth
// factor, each country computed independently. The weekly sum uses a partial
// window growing from the first observation; the prior week is the sum
// exactly 7 positions earlier in the per-country ordering. Rows whose factor
// is undefined or degenerate (no prior week yet, a prior week of zero, a
// non-finite ratio, a factor of zero or below) are dropped rather than
// reported as errors.
func ComputeGrowth(records []Record) []GrowthRow {
	var out []GrowthRow
	for _, group := range groupByLocation(records) {
		weekly := trailingSums(group)
		for i, r := range group {
			if i < windowSize {
				continue
			}
			factor := weekly[i] / weekly[i-windowSize]
			if Missing(factor) || math.IsInf(factor, 0) || factor <= 0 {
				continue
			}
			out = append(out, GrowthRow{
				Location:       r.Location,
				WeekEnd:        r.Date,
				WeeklyCases:    weekly[i],
				GrowthFactor7d: factor,
			})
		}
	}
	return out
}

// trailingSums computes the trailing case sum over up to windowSize
// observations, growing from size 1 at the first row. Missing case counts
// are skipped; a window with no defined value sums to the missing marker.
func trailingSums(group []Record) []float64 {
	sums := make([]float64, len(group))
	for i := range group {
		start := i - windowSize + 1
		if start < 0 {
			start = 0
		}
		sum, defined := 0.0, 0
		for j := start; j <= i; j++ {
			if Missing(group[j].NewCases) {
				continue
			}
			sum += group[j].NewCases
			defined++
		}
		if defined == 0 {
			sums[i] = math.NaN()
			continue
		}
		sums[i] = sum
	}
	return sums
}

// groupByLocation splits records per country with each group sorted by date
// ascending. Groups come back in location order so repeated runs over the
// same input emit identical tables.
func groupByLocation(records []Record) [][]Record {
	byLocation := make(map[string][]Record)
	for _, r := range records {
		byLocation[r.Location] = append(byLocation[r.Location], r)
	}

	locations := make([]string, 0, len(byLocation))
	for location := range byLocation {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	groups := make([][]Record, 0, len(locations))
	for _, location := range locations {
		group := byLocation[location]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })
		groups = append(groups, group)
	}
	return groups
}
