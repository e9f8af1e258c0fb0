package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedTable(t *testing.T) {
	records := []Record{
		{
			Location:         "Ecuador",
			Date:             time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			NewCases:         10,
			PeopleVaccinated: 3,
			Population:       17_800_000,
		},
		{
			Location:   "Peru",
			Date:       time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
			NewCases:   1.5,
			Population: math.NaN(),
		},
	}

	f := ProcessedTable(records)

	assert.Equal(t, []string{"location", "date", "new_cases", "people_vaccinated", "population"}, f.Columns)
	require.Len(t, f.Rows, 2)
	assert.Equal(t, []string{"Ecuador", "2021-01-01", "10", "3", "1.78e+07"}, f.Rows[0])
	assert.Equal(t, "", f.Rows[1][4], "missing population renders as an empty cell")
	assert.Equal(t, "1.5", f.Rows[1][2])
}

func TestIncidenceTable(t *testing.T) {
	rows := []IncidenceRow{
		{Location: "Ecuador", Date: time.Date(2021, 1, 7, 0, 0, 0, 0, time.UTC), Incidence7d: 1.25},
	}

	f := IncidenceTable(rows)

	assert.Equal(t, []string{"date", "location", "incidence_7d"}, f.Columns)
	require.Len(t, f.Rows, 1)
	assert.Equal(t, []string{"2021-01-07", "Ecuador", "1.25"}, f.Rows[0])
}

func TestGrowthTable(t *testing.T) {
	rows := []GrowthRow{
		{Location: "Peru", WeekEnd: time.Date(2021, 1, 14, 0, 0, 0, 0, time.UTC), WeeklyCases: 140, GrowthFactor7d: 2},
	}

	f := GrowthTable(rows)

	assert.Equal(t, []string{"week_end", "location", "weekly_cases", "growth_factor_7d"}, f.Columns)
	require.Len(t, f.Rows, 1)
	assert.Equal(t, []string{"2021-01-14", "Peru", "140", "2"}, f.Rows[0])
}

func TestProjectionIsIdempotent(t *testing.T) {
	records := append(
		flatSeries("Ecuador", 0, 14, 10, 17_800_000),
		flatSeries("Peru", 0, 14, 25, 33_000_000)...,
	)

	first := IncidenceTable(ComputeIncidence(records))
	second := IncidenceTable(ComputeIncidence(records))
	assert.Equal(t, first, second)

	growthFirst := GrowthTable(ComputeGrowth(records))
	growthSecond := GrowthTable(ComputeGrowth(records))
	assert.Equal(t, growthFirst, growthSecond)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected string
	}{
		{"integer stays bare", 70, "70"},
		{"fraction keeps precision", 1.0 / 3, "0.3333333333333333"},
		{"missing renders empty", math.NaN(), ""},
		{"zero", 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatNumber(tt.in))
		})
	}
}

func TestProfileTable(t *testing.T) {
	f := processedFrame(
		[]string{"Ecuador", "2021-01-01", "10", "3", "17800000"},
		[]string{"Ecuador", "2021-01-02", "", "4", "17800000"},
		[]string{"Ecuador", "2021-01-03", "25", "", "17800000"},
		[]string{"Peru", "2020-12-30", "5", "1", "33000000"},
	)

	profile := ProfileTable(f)

	assert.Equal(t, []string{"field", "value"}, profile.Columns)
	got := map[string]string{}
	for _, row := range profile.Rows {
		got[row[0]] = row[1]
	}

	assert.Equal(t, "text", got["column:location"])
	assert.Equal(t, "date", got["column:date"])
	assert.Equal(t, "numeric", got["column:new_cases"])
	assert.Equal(t, "5", got["new_cases_min"])
	assert.Equal(t, "25", got["new_cases_max"])
	assert.Equal(t, "25.00", got["pct_null_new_cases"])
	assert.Equal(t, "25.00", got["pct_null_people_vaccinated"])
	assert.Equal(t, "2020-12-30", got["date_min"])
	assert.Equal(t, "2021-01-03", got["date_max"])
}

func TestInferKind(t *testing.T) {
	f := Frame{
		Columns: []string{"blank", "mixed"},
		Rows:    [][]string{{"", "1"}, {"", "abc"}},
	}

	assert.Equal(t, "empty", inferKind(f, "blank"))
	assert.Equal(t, "text", inferKind(f, "mixed"))
}
