// Command genmock writes a synthetic OWID-style CSV fixture for tests and
// local runs. The case series follows two overlapping waves per country so
// both indicators produce non-trivial output. Generation is deterministic
// for a given seed.
//
// Dirty mode injects the defects the quality checks exist for: a duplicate
// (location, date) row, a negative case count, a null population, and
// aliased headers with a BOM.
//
// Usage:
//
//	go run ./cmd/genmock -out data/owid_sample.csv -days 120
//	go run ./cmd/genmock -out data/owid_dirty.csv -dirty
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var startDate = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

type country struct {
	name       string
	population int
	baseCases  float64
}

var countries = []country{
	{name: "Ecuador", population: 17_800_000, baseCases: 900},
	{name: "Peru", population: 33_000_000, baseCases: 1800},
}

func main() {
	out := flag.String("out", "", "output CSV path")
	days := flag.Int("days", 120, "days of history per country")
	seed := flag.Int64("seed", 42, "random seed")
	dirty := flag.Bool("dirty", false, "inject known data defects and aliased headers")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*out, *days, *seed, *dirty); err != nil {
		log.Fatal(err)
	}
}

func run(out string, days int, seed int64, dirty bool) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	header := []string{"location", "date", "new_cases", "people_vaccinated", "population"}
	if dirty {
		// Exercise the normalizer: BOM, stray case, whitespace, aliases.
		header = []string{"\ufeffCountry", " Day ", "new_cases_daily", "people_with_at_least_one_dose", "POP"}
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	rows := 0
	for _, c := range countries {
		vaccinated := 0
		for d := 0; d < days; d++ {
			date := startDate.AddDate(0, 0, d)
			cases := waveCases(c.baseCases, d, days, rng)
			vaccinated += int(float64(c.population) * 0.004 * rng.Float64())

			record := []string{
				c.name,
				date.Format("2006-01-02"),
				strconv.Itoa(cases),
				strconv.Itoa(vaccinated),
				strconv.Itoa(c.population),
			}
			if err := w.Write(record); err != nil {
				return err
			}
			rows++
		}
	}

	if dirty {
		defects := [][]string{
			// Duplicate (location, date) pair.
			{"Ecuador", startDate.Format("2006-01-02"), "10", "0", "17800000"},
			// Negative daily cases.
			{"Peru", startDate.AddDate(0, 0, days).Format("2006-01-02"), "-5", "100", "33000000"},
			// Null population and unparseable case count.
			{"Ecuador", startDate.AddDate(0, 0, days+1).Format("2006-01-02"), "n/a", "100", ""},
		}
		for _, record := range defects {
			if err := w.Write(record); err != nil {
				return err
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d rows for %s to %s", rows, countryNames(), out)
	return nil
}

// waveCases shapes the daily count as two overlapping sine waves plus noise,
// clamped at zero.
func waveCases(base float64, day, days int, rng *rand.Rand) int {
	t := float64(day) / float64(days)
	wave := 1 + 0.8*math.Sin(2*math.Pi*2*t) + 0.4*math.Sin(2*math.Pi*5*t)
	noise := 0.9 + 0.2*rng.Float64()
	cases := base * wave * noise
	if cases < 0 {
		return 0
	}
	return int(cases)
}

func countryNames() string {
	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}
