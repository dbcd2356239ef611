package domain

import (
	"sort"
	"strconv"
)

// DatetimeFacetSets holds the calendar parts actually observed for a
// datetime column, each sorted ascending.
type DatetimeFacetSets struct {
	Years  []int
	Months []int
	Days   []int
	Hours  []int
}

// DistinctIndex is the filter vocabulary for one ticket snapshot: per
// discrete column the sorted distinct display values, and per datetime
// column the observed calendar parts. Rebuilt whenever the snapshot
// changes; never persisted.
type DistinctIndex struct {
	// Values maps discrete column keys (and, for the day-of-year-range
	// column, its year part key) to sorted distinct display values.
	Values map[string][]string
	// Datetime maps datetime-parts column keys to their part sets.
	Datetime map[string]DatetimeFacetSets
}

// BuildDistinctIndex scans the collection once and produces the filter
// vocabulary for every filterable column in the catalog.
func BuildDistinctIndex(tickets []*Ticket, columns []ColumnDefinition, categories CategoryMap) DistinctIndex {
	idx := DistinctIndex{
		Values:   make(map[string][]string),
		Datetime: make(map[string]DatetimeFacetSets),
	}

	for _, col := range columns {
		switch col.Kind {
		case FilterKindDiscrete:
			idx.Values[col.Key] = distinctDisplayValues(tickets, col, categories)
		case FilterKindDatetimeParts:
			idx.Datetime[col.Key] = datetimeParts(tickets, col)
		case FilterKindDayOfYearRange:
			idx.Values[PartKey(col.Key, PartYear)] = distinctYears(tickets, col)
		}
	}
	return idx
}

func distinctDisplayValues(tickets []*Ticket, col ColumnDefinition, categories CategoryMap) []string {
	seen := make(map[string]struct{})
	for _, t := range tickets {
		v := ExtractValue(t, col.Key, categories)
		if v == "" {
			v = Placeholder
		}
		if v == Placeholder && col.DropPlaceholder {
			continue
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sortPlaceholderLast(values)
	return values
}

// sortPlaceholderLast sorts ascending lexicographically but forces the
// placeholder to the end when present.
func sortPlaceholderLast(values []string) {
	sort.Slice(values, func(i, j int) bool {
		if values[i] == Placeholder {
			return false
		}
		if values[j] == Placeholder {
			return true
		}
		return values[i] < values[j]
	})
}

// datetimeParts collects the calendar parts of every parsable timestamp.
// Tickets without one contribute nothing to any of the four sets.
func datetimeParts(tickets []*Ticket, col ColumnDefinition) DatetimeFacetSets {
	years := make(map[int]struct{})
	months := make(map[int]struct{})
	days := make(map[int]struct{})
	hours := make(map[int]struct{})

	for _, t := range tickets {
		ts := t.timestampFor(col.Key)
		if ts == nil {
			continue
		}
		years[ts.Year()] = struct{}{}
		months[int(ts.Month())] = struct{}{}
		days[ts.Day()] = struct{}{}
		hours[ts.Hour()] = struct{}{}
	}

	return DatetimeFacetSets{
		Years:  sortedInts(years),
		Months: sortedInts(months),
		Days:   sortedInts(days),
		Hours:  sortedInts(hours),
	}
}

func distinctYears(tickets []*Ticket, col ColumnDefinition) []string {
	years := make(map[int]struct{})
	for _, t := range tickets {
		if ts := t.timestampFor(col.Key); ts != nil {
			years[ts.Year()] = struct{}{}
		}
	}
	sorted := sortedInts(years)
	out := make([]string, len(sorted))
	for i, y := range sorted {
		out[i] = strconv.Itoa(y)
	}
	return out
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
