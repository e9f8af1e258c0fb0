// Command validate runs the full quality-check suite against a local CSV
// export without touching the network: normalize headers, run the input
// checks, build processed records, derive both indicators, run the output
// checks, and print the outcome table. The exit code follows the quality
// gate: 0 clean, 0 with warnings, 2 blocked, 1 on structural failure.
//
// Usage:
//
//	go run ./cmd/validate -input data/owid_sample.csv
//	go run ./cmd/validate -input export.csv -base Ecuador -compare Peru
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/covid-metrics-etl/internal/adapter/owid"
	"github.com/couchcryptid/covid-metrics-etl/internal/config"
	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
)

func main() {
	input := flag.String("input", "", "path to a CSV export to validate")
	base := flag.String("base", "Ecuador", "base country")
	compare := flag.String("compare", "Peru", "comparison country")
	aliasFile := flag.String("alias-file", "", "optional YAML alias table override")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*input, *base, *compare, *aliasFile))
}

func run(input, base, compare, aliasFile string) int {
	aliases := domain.DefaultAliases
	if aliasFile != "" {
		var err error
		aliases, err = config.LoadAliases(aliasFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	f, err := os.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	frame, err := owid.ReadCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("read %d rows, %d columns\n", len(frame.Rows), len(frame.Columns))

	normalized := domain.Normalize(frame, aliases)
	outcomes := domain.RunInputChecks(normalized)

	// Derive the indicators only when the input survives its own gate;
	// output checks need the metric tables to exist.
	if domain.EvaluateGate(outcomes).Proceed() {
		records, err := domain.BuildRecords(normalized, []string{base, compare})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		incidence := domain.IncidenceTable(domain.ComputeIncidence(records))
		growth := domain.GrowthTable(domain.ComputeGrowth(records))
		fmt.Printf("processed %d rows, %d incidence rows, %d growth rows\n",
			len(records), len(incidence.Rows), len(growth.Rows))
		outcomes = append(outcomes, domain.RunOutputChecks(incidence, growth)...)
	}

	printOutcomes(outcomes)

	gate := domain.EvaluateGate(outcomes)
	fmt.Printf("\ngate: %s\n", gate.Status)
	if !gate.Proceed() {
		return 2
	}
	return 0
}

func printOutcomes(outcomes []domain.Outcome) {
	fmt.Println()
	for _, o := range outcomes {
		mark := "PASS"
		if !o.Passed {
			mark = "FAIL"
		}
		fmt.Printf("%-4s  %-22s  %-8s  findings=%-6d %s\n",
			mark, o.Check, o.Severity, o.Findings, o.Description)
	}
}
