package domain

import (
	"sort"
	"strconv"
	"time"
)

// BreakdownItem is one labeled slice of a dashboard chart.
type BreakdownItem struct {
	Label string
	Value int
}

// DashboardStats are the admin dashboard's headline counters and chart
// breakdowns, computed over the full snapshot.
type DashboardStats struct {
	TodayNew      int
	TodayResolved int
	TotalPending  int
	ByCategory    []BreakdownItem
	ByWorkType    []BreakdownItem
	ByStatus      []BreakdownItem
}

// otherCategoryLabel buckets tickets with no resolvable category.
const otherCategoryLabel = "Other"

// BuildStats derives the dashboard counters from the snapshot. "Today" is
// the calendar day containing now; tickets without the relevant timestamp
// simply do not count toward the today counters.
func BuildStats(tickets []*Ticket, categories CategoryMap, now time.Time) DashboardStats {
	today := startOfDay(now)

	stats := DashboardStats{}

	// Pre-seed every known category so empty ones still chart as zero.
	byCategory := make(map[string]int, len(categories)+1)
	for _, name := range categories {
		byCategory[name] = 0
	}
	byCategory[otherCategoryLabel] = 0

	byWorkType := map[WorkType]int{
		WorkTypeIncident: 0,
		WorkTypeRequest:  0,
		WorkTypeChange:   0,
		WorkTypeOther:    0,
	}

	byStatus := map[TicketStatus]int{
		StatusOpen:       0,
		StatusInProgress: 0,
		StatusResolved:   0,
		StatusClosed:     0,
	}

	for _, t := range tickets {
		created := t.CreatedAt
		updated := t.UpdatedAt
		if updated == nil {
			updated = created
		}

		if t.Status == StatusOpen || t.Status == StatusInProgress {
			stats.TotalPending++
		}
		if created != nil && !created.Before(today) {
			stats.TodayNew++
		}
		if updated != nil && !updated.Before(today) && t.Status == StatusResolved {
			stats.TodayResolved++
		}

		byCategory[categoryStatLabel(t, categories)]++

		wt := WorkTypeOther
		if t.WorkType != nil {
			if _, known := byWorkType[*t.WorkType]; known {
				wt = *t.WorkType
			}
		}
		byWorkType[wt]++

		if _, known := byStatus[t.Status]; known {
			byStatus[t.Status]++
		}
	}

	stats.ByCategory = categoryBreakdown(byCategory)
	stats.ByWorkType = []BreakdownItem{
		{Label: workTypeLabels[WorkTypeIncident], Value: byWorkType[WorkTypeIncident]},
		{Label: workTypeLabels[WorkTypeRequest], Value: byWorkType[WorkTypeRequest]},
		{Label: workTypeLabels[WorkTypeChange], Value: byWorkType[WorkTypeChange]},
		{Label: workTypeLabels[WorkTypeOther], Value: byWorkType[WorkTypeOther]},
	}
	stats.ByStatus = []BreakdownItem{
		{Label: statusLabels[StatusOpen], Value: byStatus[StatusOpen]},
		{Label: statusLabels[StatusInProgress], Value: byStatus[StatusInProgress]},
		{Label: statusLabels[StatusResolved], Value: byStatus[StatusResolved]},
		{Label: statusLabels[StatusClosed], Value: byStatus[StatusClosed]},
	}
	return stats
}

// categoryStatLabel picks the chart bucket for a ticket's category: the
// first category's resolved name, its raw ID when unresolvable, or the
// catch-all bucket when the ticket has no category at all.
func categoryStatLabel(t *Ticket, categories CategoryMap) string {
	ids := t.categoryIDList()
	if len(ids) == 0 {
		return otherCategoryLabel
	}
	if name, ok := categories[ids[0]]; ok && name != "" {
		return name
	}
	return strconv.FormatInt(ids[0], 10)
}

// categoryBreakdown orders category slices by name with the catch-all
// bucket last, so chart output is deterministic.
func categoryBreakdown(counts map[string]int) []BreakdownItem {
	names := make([]string, 0, len(counts))
	for name := range counts {
		if name != otherCategoryLabel {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]BreakdownItem, 0, len(counts))
	for _, name := range names {
		out = append(out, BreakdownItem{Label: name, Value: counts[name]})
	}
	return append(out, BreakdownItem{Label: otherCategoryLabel, Value: counts[otherCategoryLabel]})
}
