package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Severity says what a failed check means for the run: blocking failures
// stop downstream output, advisory findings are surfaced and ignored.
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityAdvisory Severity = "advisory"
)

// Outcome is the result of one data-quality check. Passed reflects the
// condition the check tests, Severity is fixed per check, and Findings
// counts offending rows independently of both, so a consumer never has to
// parse the description to learn how bad the data is.
type Outcome struct {
	Check       string   `json:"check"`
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
	Findings    int      `json:"findings"`
	Description string   `json:"description"`
}

// structuralFailure is the blocking outcome for absent columns. Missing
// required columns override a check's normal severity.
func structuralFailure(check string, missing []string) Outcome {
	return Outcome{
		Check:       check,
		Passed:      false,
		Severity:    SeverityBlocking,
		Findings:    len(missing),
		Description: "missing columns: " + strings.Join(missing, ", "),
	}
}

func blockingCount(check string, findings int, description string) Outcome {
	return Outcome{
		Check:       check,
		Passed:      findings == 0,
		Severity:    SeverityBlocking,
		Findings:    findings,
		Description: description,
	}
}

func advisoryCount(check string, findings int, description string) Outcome {
	return Outcome{
		Check:       check,
		Passed:      findings == 0,
		Severity:    SeverityAdvisory,
		Findings:    findings,
		Description: description,
	}
}

// CheckMaxDateNotFuture verifies that the date column has a parseable
// maximum. A maximum later than the current date passes with an advisory
// finding: late-dated rows are a publishing quirk of the source, while an
// unparseable column means the feed itself is broken and blocks the run.
// "Today" comes from the package clock so tests can freeze it.
func CheckMaxDateNotFuture(f Frame) Outcome {
	const name = "max_date_not_future"
	if missing := f.MissingColumns(FieldDate); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	var maxDate time.Time
	for i := range f.Rows {
		if d := Day(f.Cell(i, FieldDate)); d.After(maxDate) {
			maxDate = d
		}
	}
	if maxDate.IsZero() {
		return Outcome{
			Check:       name,
			Passed:      false,
			Severity:    SeverityBlocking,
			Description: "max(date) is undefined",
		}
	}

	today := clock.Now().UTC().Truncate(24 * time.Hour)
	if maxDate.After(today) {
		return Outcome{
			Check:       name,
			Passed:      true,
			Severity:    SeverityAdvisory,
			Findings:    1,
			Description: fmt.Sprintf("max(date)=%s is later than today (advisory)", maxDate.Format(DateLayout)),
		}
	}
	return Outcome{
		Check:       name,
		Passed:      true,
		Severity:    SeverityAdvisory,
		Description: fmt.Sprintf("max(date)=%s ok", maxDate.Format(DateLayout)),
	}
}

// CheckKeysNotNull counts rows whose location, date, or population is null.
// Advisory: null keys are trimmed later in processing, not a reason to halt.
func CheckKeysNotNull(f Frame) Outcome {
	const name = "keys_not_null"
	if missing := f.MissingColumns(FieldLocation, FieldDate, FieldPopulation); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	findings := 0
	for i := range f.Rows {
		if strings.TrimSpace(f.Cell(i, FieldLocation)) == "" ||
			Day(f.Cell(i, FieldDate)).IsZero() ||
			Missing(Number(f.Cell(i, FieldPopulation))) {
			findings++
		}
	}
	return advisoryCount(name, findings, fmt.Sprintf("%d rows with null keys", findings))
}

// CheckUniqueKeys fails when any (location, date) pair appears more than
// once. Duplicates would double-count cases inside every rolling window.
func CheckUniqueKeys(f Frame) Outcome {
	const name = "unique_keys"
	if missing := f.MissingColumns(FieldLocation, FieldDate); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	seen := make(map[string]bool, len(f.Rows))
	duplicates := 0
	for i := range f.Rows {
		key := f.Cell(i, FieldLocation) + "\x00" + f.Cell(i, FieldDate)
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true
	}
	return blockingCount(name, duplicates, fmt.Sprintf("duplicate (location, date) pairs: %d", duplicates))
}

// CheckPopulationPositive fails when any row's population is zero or
// negative. Unparseable populations are missing, not violations.
func CheckPopulationPositive(f Frame) Outcome {
	const name = "population_positive"
	if missing := f.MissingColumns(FieldPopulation); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	findings := 0
	for i := range f.Rows {
		if v := Number(f.Cell(i, FieldPopulation)); !Missing(v) && v <= 0 {
			findings++
		}
	}
	return blockingCount(name, findings, fmt.Sprintf("rows with population<=0: %d", findings))
}

// CheckNewCasesNonnegative fails when any row reports negative new cases.
func CheckNewCasesNonnegative(f Frame) Outcome {
	const name = "new_cases_nonnegative"
	if missing := f.MissingColumns(FieldNewCases); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	findings := 0
	for i := range f.Rows {
		if v := Number(f.Cell(i, FieldNewCases)); !Missing(v) && v < 0 {
			findings++
		}
	}
	return blockingCount(name, findings, fmt.Sprintf("rows with new_cases<0: %d", findings))
}

// CheckIncidenceInRange fails when any emitted incidence value falls outside
// [0, 2000] per 100k, a generous ceiling no real wave has crossed.
func CheckIncidenceInRange(f Frame) Outcome {
	const name = "incidence_in_range"
	if missing := f.MissingColumns(FieldIncidence7d); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	findings := 0
	for i := range f.Rows {
		if v := Number(f.Cell(i, FieldIncidence7d)); !Missing(v) && (v < 0 || v > 2000) {
			findings++
		}
	}
	return blockingCount(name, findings, fmt.Sprintf("incidence values outside [0,2000]: %d", findings))
}

// CheckGrowthFactorValid counts growth factors that are missing, non-finite,
// or not strictly positive. Advisory: the engine already drops such rows, so
// findings here point at a regression rather than bad source data.
func CheckGrowthFactorValid(f Frame) Outcome {
	const name = "growth_factor_valid"
	if missing := f.MissingColumns(FieldGrowthFactor7d); len(missing) > 0 {
		return structuralFailure(name, missing)
	}

	findings := 0
	for i := range f.Rows {
		v := Number(f.Cell(i, FieldGrowthFactor7d))
		if Missing(v) || math.IsInf(v, 0) || v <= 0 {
			findings++
		}
	}
	return advisoryCount(name, findings, fmt.Sprintf("invalid growth factors (NaN/inf/<=0): %d", findings))
}

// RunInputChecks runs every raw-input check against a normalized frame, in a
// fixed order so the validation report is stable across runs.
func RunInputChecks(f Frame) []Outcome {
	return []Outcome{
		CheckMaxDateNotFuture(f),
		CheckKeysNotNull(f),
		CheckUniqueKeys(f),
		CheckPopulationPositive(f),
		CheckNewCasesNonnegative(f),
	}
}

// RunOutputChecks runs the derived-metric checks against the projected
// incidence and growth tables.
func RunOutputChecks(incidence, growth Frame) []Outcome {
	return []Outcome{
		CheckIncidenceInRange(incidence),
		CheckGrowthFactorValid(growth),
	}
}
