package domain

import "strings"

// FieldAliases maps one canonical field to the header spellings accepted for
// it, in match priority order.
type FieldAliases struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// DefaultAliases is the built-in alias table for OWID-style exports. Entries
// are evaluated in order and the first alias present in a frame wins.
var DefaultAliases = []FieldAliases{
	{Canonical: FieldLocation, Aliases: []string{"location", "entity", "country", "country_name", "location_name", "place"}},
	{Canonical: FieldDate, Aliases: []string{"date", "day"}},
	{Canonical: FieldNewCases, Aliases: []string{"new_cases", "new_cases_daily"}},
	{Canonical: FieldPeopleVaccinated, Aliases: []string{"people_vaccinated", "people_with_at_least_one_dose"}},
	{Canonical: FieldPopulation, Aliases: []string{"population", "pop"}},
}

// Normalize returns a copy of f whose headers are cleaned (whitespace and BOM
// stripped, lowercased) and renamed to canonical names via the alias table.
// The first alias found for a canonical field claims it; later aliases keep
// their own names. A canonical field with no alias present is simply absent;
// consumers detect that later. Rows are shared, never rewritten: this is a
// pure header transformation and row order and count are untouched.
func Normalize(f Frame, aliases []FieldAliases) Frame {
	cols := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		cols[i] = cleanHeader(c)
	}

	for _, fa := range aliases {
		for _, alias := range fa.Aliases {
			idx := indexOf(cols, alias)
			if idx == -1 {
				continue
			}
			if alias != fa.Canonical {
				cols[idx] = fa.Canonical
			}
			break
		}
	}

	return Frame{Columns: cols, Rows: f.Rows}
}

func cleanHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\ufeff", "")
	return strings.ToLower(s)
}

func indexOf(ss []string, want string) int {
	for i, s := range ss {
		if s == want {
			return i
		}
	}
	return -1
}
