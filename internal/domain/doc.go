// Package domain implements the COVID indicator engine: schema
// normalization, record validation, rolling-window metric derivation, the
// quality gate, and output projection. Everything here is a pure
// transformation over in-memory tables; fetching, rendering, and reporting
// live in the adapters.
//
// # Data Source
//
// Records come from the Our World in Data (OWID) compact COVID dataset,
// https://catalog.ourworldindata.org/garden/covid/latest/compact/compact.csv.
// One row is one country-day carrying the daily new case count, the
// cumulative count of people vaccinated, and the country population.
// External exports of the same data rename columns freely, so headers pass
// through an alias table first (see [DefaultAliases]): "entity", "country"
// and friends become "location", "day" becomes "date", and so on. Matching
// is case-insensitive, whitespace- and BOM-stripped, first alias wins.
//
// # Missing Values
//
// The engine's missing marker is NaN for numbers and the zero time for
// dates. Any cell that fails numeric coercion becomes missing, never zero
// and never an error. Null-aware consumers (window computations, checks)
// are exclusively responsible for handling it.
//
// # Window Semantics
//
// Both indicators use a trailing 7-row window per country, sorted by date:
//
//	incidence_7d     mean of daily new_cases/population*100k over exactly
//	                 7 consecutive observations; emitted only for full,
//	                 fully-defined windows.
//	weekly_cases     sum over up to 7 observations, partial from day 1.
//	growth_factor_7d weekly_cases divided by the weekly sum 7 positions
//	                 earlier; rows without a valid positive finite factor
//	                 are dropped.
//
// Windows count rows, not calendar days. A gap in a country's series makes
// non-adjacent days act as adjacent, matching the upstream dataset's
// publication model where every country-day is present once.
//
// # Quality Gate
//
// Checks produce [Outcome] values with a fixed severity. The gate blocks a
// run when any blocking check fails; advisory findings are surfaced but
// never stop the run. Missing required columns fail as blocking regardless
// of a check's normal severity.
package domain
