package domain

import "sort"

// MinYear is the floor for year-range defaults.
const MinYear = 1900

// ViewFilter is the user-selected filter state, passed by value from
// the interaction layer. An empty Regions or Statuses selection means
// "no constraint": the UI pre-populates full selections, so the engine
// treats empty as pass-all rather than show-nothing.
type ViewFilter struct {
	Regions    []string
	Statuses   []string
	YearMin    int
	YearMax    int
	ShowLabels bool
}

// Filter returns the subset of cases matching all three predicates
// (region, status, start-date year), preserving original row order.
// Rows with an absent start date never pass the year predicate.
func Filter(cases []Case, f ViewFilter) []Case {
	regions := toSet(f.Regions)
	statuses := toSet(f.Statuses)

	out := make([]Case, 0, len(cases))
	for _, c := range cases {
		if len(regions) > 0 && !regions[c.Region] {
			continue
		}
		if len(statuses) > 0 && !statuses[c.Status] {
			continue
		}
		if c.StartDate == nil {
			continue
		}
		if y := c.StartDate.Year(); y < f.YearMin || y > f.YearMax {
			continue
		}
		out = append(out, c)
	}
	return out
}

// YearBounds computes the default year range for the UI from the
// unfiltered normalized set: min/max start-date year clamped to a
// floor of MinYear. With no cases or no parseable start dates it
// falls back to [MinYear, current year].
func YearBounds(cases []Case) (int, int) {
	minYear, maxYear := 0, 0
	seen := false
	for _, c := range cases {
		if c.StartDate == nil {
			continue
		}
		y := c.StartDate.Year()
		if !seen {
			minYear, maxYear, seen = y, y, true
			continue
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	if !seen {
		return MinYear, clock.Now().Year()
	}
	if minYear < MinYear {
		minYear = MinYear
	}
	if maxYear < minYear {
		maxYear = minYear
	}
	return minYear, maxYear
}

// KnownRegions returns the distinct non-empty region values, sorted.
func KnownRegions(cases []Case) []string {
	return distinct(cases, func(c Case) string { return c.Region })
}

// KnownStatuses returns the distinct non-empty status values, sorted.
func KnownStatuses(cases []Case) []string {
	return distinct(cases, func(c Case) string { return c.Status })
}

func distinct(cases []Case, get func(Case) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, c := range cases {
		v := get(c)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
