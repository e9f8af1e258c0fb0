package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesStart = time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

// rec builds one observation day offset days after seriesStart.
func rec(location string, day int, cases, population float64) Record {
	return Record{
		Location:   location,
		Date:       seriesStart.AddDate(0, 0, day),
		NewCases:   cases,
		Population: population,
	}
}

// flatSeries builds n consecutive days of the same case count.
func flatSeries(location string, startDay, n int, cases, population float64) []Record {
	records := make([]Record, 0, n)
	for d := 0; d < n; d++ {
		records = append(records, rec(location, startDay+d, cases, population))
	}
	return records
}

func TestComputeIncidence(t *testing.T) {
	t.Run("step series matches hand computation", func(t *testing.T) {
		// 7 days of 10 cases then 7 days of 20 over 1M people: daily
		// incidence 1.0 then 2.0 per 100k.
		records := append(
			flatSeries("A", 0, 7, 10, 1_000_000),
			flatSeries("A", 7, 7, 20, 1_000_000)...,
		)

		out := ComputeIncidence(records)

		require.Len(t, out, 8, "first full window closes on day 7")
		assert.Equal(t, seriesStart.AddDate(0, 0, 6), out[0].Date)
		assert.InDelta(t, 1.0, out[0].Incidence7d, 1e-9)
		assert.Equal(t, seriesStart.AddDate(0, 0, 13), out[7].Date)
		assert.InDelta(t, 2.0, out[7].Incidence7d, 1e-9)
		// Day 8 window holds six 1.0 days and one 2.0 day.
		assert.InDelta(t, (6*1.0+2.0)/7, out[1].Incidence7d, 1e-9)
	})

	t.Run("fewer than seven observations emit nothing", func(t *testing.T) {
		assert.Empty(t, ComputeIncidence(flatSeries("A", 0, 6, 10, 1_000_000)))
	})

	t.Run("population zero suppresses windows covering it", func(t *testing.T) {
		records := flatSeries("A", 0, 14, 10, 1_000_000)
		records[3].Population = 0

		out := ComputeIncidence(records)

		// Windows ending on days 6..9 cover the undefined day 3.
		require.Len(t, out, 4)
		assert.Equal(t, seriesStart.AddDate(0, 0, 10), out[0].Date)
		for _, row := range out {
			assert.False(t, math.IsNaN(row.Incidence7d))
		}
	})

	t.Run("windows slide over observations, not calendar days", func(t *testing.T) {
		// Six consecutive days, a twelve-day gap, then one more observation:
		// seven rows total, so the window closes on the row after the gap.
		records := flatSeries("A", 0, 6, 10, 1_000_000)
		records = append(records, rec("A", 18, 10, 1_000_000))

		out := ComputeIncidence(records)

		require.Len(t, out, 1)
		assert.Equal(t, seriesStart.AddDate(0, 0, 18), out[0].Date)
		assert.InDelta(t, 1.0, out[0].Incidence7d, 1e-9)
	})

	t.Run("countries never share a window", func(t *testing.T) {
		records := append(
			flatSeries("A", 0, 6, 10, 1_000_000),
			flatSeries("B", 0, 6, 1000, 1_000_000)...,
		)

		// 12 rows across two countries, but neither has 7 of its own.
		assert.Empty(t, ComputeIncidence(records))
	})

	t.Run("unsorted input is ordered per country by date", func(t *testing.T) {
		records := flatSeries("A", 0, 8, 10, 1_000_000)
		records[0], records[7] = records[7], records[0]

		out := ComputeIncidence(records)

		require.Len(t, out, 2)
		assert.True(t, out[0].Date.Before(out[1].Date))
	})
}

func TestComputeGrowth(t *testing.T) {
	t.Run("step series matches hand computation", func(t *testing.T) {
		records := append(
			flatSeries("A", 0, 7, 10, 1_000_000),
			flatSeries("A", 7, 7, 20, 1_000_000)...,
		)

		out := ComputeGrowth(records)

		// First factor exists at the 8th observation; its prior "week" is
		// the partial window of day 0 alone.
		require.Len(t, out, 7)
		first := out[0]
		assert.Equal(t, seriesStart.AddDate(0, 0, 7), first.WeekEnd)
		assert.InDelta(t, 6*10+20, first.WeeklyCases, 1e-9)
		assert.InDelta(t, 80.0/10.0, first.GrowthFactor7d, 1e-9)

		last := out[6]
		assert.Equal(t, seriesStart.AddDate(0, 0, 13), last.WeekEnd)
		assert.InDelta(t, 140, last.WeeklyCases, 1e-9)
		assert.InDelta(t, 2.0, last.GrowthFactor7d, 1e-9)
	})

	t.Run("trailing sums grow from a window of one", func(t *testing.T) {
		group := flatSeries("A", 0, 10, 5, 1_000_000)

		sums := trailingSums(group)

		assert.Equal(t, group[0].NewCases, sums[0], "first window is the row itself")
		assert.Equal(t, 10.0, sums[1])
		assert.Equal(t, 35.0, sums[6])
		assert.Equal(t, 35.0, sums[9], "window stays at seven rows")
	})

	t.Run("zero prior week yields no row, not an error", func(t *testing.T) {
		records := append(
			flatSeries("A", 0, 7, 0, 1_000_000),
			flatSeries("A", 7, 14, 10, 1_000_000)...,
		)

		out := ComputeGrowth(records)

		// Every window ending on days 7..13 divides by the all-zero first
		// week; the first defined factor appears on day 14.
		require.Len(t, out, 7)
		assert.Equal(t, seriesStart.AddDate(0, 0, 14), out[0].WeekEnd)
		assert.InDelta(t, 70.0/10.0, out[0].GrowthFactor7d, 1e-9)
		for _, row := range out {
			assert.Greater(t, row.GrowthFactor7d, 0.0)
			assert.False(t, math.IsInf(row.GrowthFactor7d, 0))
		}
	})

	t.Run("all-zero series emits nothing", func(t *testing.T) {
		assert.Empty(t, ComputeGrowth(flatSeries("A", 0, 20, 0, 1_000_000)))
	})

	t.Run("fewer than eight observations emit nothing", func(t *testing.T) {
		assert.Empty(t, ComputeGrowth(flatSeries("A", 0, 7, 10, 1_000_000)))
	})

	t.Run("emitted factors are always finite and positive", func(t *testing.T) {
		cases := []float64{5, 0, 12, 3, 0, 40, 7, 0, 0, 25, 1, 9, 0, 2, 88, 4}
		records := make([]Record, 0, len(cases))
		for d, c := range cases {
			records = append(records, rec("A", d, c, 1_000_000))
		}

		for _, row := range ComputeGrowth(records) {
			assert.Greater(t, row.GrowthFactor7d, 0.0)
			assert.False(t, math.IsInf(row.GrowthFactor7d, 0))
			assert.False(t, math.IsNaN(row.GrowthFactor7d))
		}
	})

	t.Run("countries never share a window", func(t *testing.T) {
		records := append(
			flatSeries("A", 0, 21, 10, 1_000_000),
			flatSeries("B", 0, 21, 70, 1_000_000)...,
		)

		out := ComputeGrowth(records)

		require.Len(t, out, 28)
		// Once both windows are full (day 13 on), a flat series grows by
		// exactly 1.0 within each country regardless of the other's level.
		for _, row := range out {
			if row.WeekEnd.Before(seriesStart.AddDate(0, 0, 13)) {
				continue
			}
			assert.InDelta(t, 1.0, row.GrowthFactor7d, 1e-9)
		}
	})
}

func TestMetricsDeterminism(t *testing.T) {
	records := append(
		flatSeries("Ecuador", 0, 30, 10, 17_800_000),
		flatSeries("Peru", 0, 30, 25, 33_000_000)...,
	)

	first := ComputeIncidence(records)
	second := ComputeIncidence(records)
	assert.Equal(t, first, second)

	growthFirst := ComputeGrowth(records)
	growthSecond := ComputeGrowth(records)
	assert.Equal(t, growthFirst, growthSecond)

	// Location groups come back in sorted order.
	require.NotEmpty(t, first)
	assert.Equal(t, "Ecuador", first[0].Location)
	assert.Equal(t, "Peru", first[len(first)-1].Location)
}
