package domain

import "strconv"

// ApplyFilters evaluates every filterable column of the catalog against the
// filter state and returns the tickets that pass all of them, in their
// original order. The computation is pure: it recomputes fully from the
// complete collection on every call.
func ApplyFilters(tickets []*Ticket, columns []ColumnDefinition, state FilterState, categories CategoryMap) []*Ticket {
	startDay := PercentToDay(state.DayRange.Start)
	endDay := PercentToDay(state.DayRange.End)

	out := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		if ticketPasses(t, columns, state, categories, startDay, endDay) {
			out = append(out, t)
		}
	}
	return out
}

func ticketPasses(t *Ticket, columns []ColumnDefinition, state FilterState, categories CategoryMap, startDay, endDay int) bool {
	for _, col := range columns {
		switch col.Kind {
		case FilterKindDiscrete:
			if !passesDiscrete(t, col, state, categories) {
				return false
			}
		case FilterKindDatetimeParts:
			if !passesDatetimeParts(t, col, state) {
				return false
			}
		case FilterKindDayOfYearRange:
			if !passesDayOfYearRange(t, col, state, startDay, endDay) {
				return false
			}
		}
	}
	return true
}

func passesDiscrete(t *Ticket, col ColumnDefinition, state FilterState, categories CategoryMap) bool {
	excluded := state.exclusionFor(col.Key)
	if excluded.Empty() {
		return true
	}
	value := ExtractValue(t, col.Key, categories)
	if value == "" {
		value = Placeholder
	}
	return !excluded.Excludes(value)
}

// passesDatetimeParts constrains only tickets that actually carry a valid
// timestamp: a missing timestamp passes this column unconditionally.
func passesDatetimeParts(t *Ticket, col ColumnDefinition, state FilterState) bool {
	ts := t.timestampFor(col.Key)
	if ts == nil {
		return true
	}
	parts := map[string]int{
		PartYear:  ts.Year(),
		PartMonth: int(ts.Month()),
		PartDay:   ts.Day(),
		PartHour:  ts.Hour(),
	}
	for part, value := range parts {
		excluded := state.exclusionFor(PartKey(col.Key, part))
		if !excluded.Empty() && excluded.Excludes(strconv.Itoa(value)) {
			return false
		}
	}
	return true
}

// passesDayOfYearRange fails closed on a missing timestamp: the column
// exists to include a temporal range, so a ticket without a creation time
// cannot be inside it. Note the deliberate contrast with passesDatetimeParts.
func passesDayOfYearRange(t *Ticket, col ColumnDefinition, state FilterState, startDay, endDay int) bool {
	ts := t.timestampFor(col.Key)
	if ts == nil {
		return false
	}
	if !state.YearsIncluded.Allows(strconv.Itoa(ts.Year())) {
		return false
	}
	doy := ts.YearDay()
	return doy >= startDay && doy <= endDay
}
