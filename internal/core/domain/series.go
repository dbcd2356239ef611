package domain

import (
	"fmt"
	"time"
)

// Granularity selects the bucket width of a trend series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// ParseGranularity validates a granularity query value. Empty selects daily.
func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "", string(GranularityDaily):
		return GranularityDaily, true
	case string(GranularityWeekly):
		return GranularityWeekly, true
	case string(GranularityMonthly):
		return GranularityMonthly, true
	default:
		return "", false
	}
}

// Bucket counts per series granularity: 365 trailing days, 52 trailing
// Monday-aligned weeks, 12 trailing calendar months.
const (
	dailyBuckets   = 365
	weeklyBuckets  = 52
	monthlyBuckets = 12
)

// Series is a fixed-length, chronologically ordered bucket set for chart
// rendering. Labels and Values are parallel.
type Series struct {
	Labels []string
	Values []int
}

// BuildSeries counts ticket creation timestamps into trailing buckets
// anchored at now, earliest bucket first. Buckets are pre-seeded with zero;
// tickets without a creation timestamp, or outside the trailing window, are
// dropped silently. Two calls with a different now may legitimately produce
// different bucket sets.
func BuildSeries(tickets []*Ticket, g Granularity, now time.Time) Series {
	today := startOfDay(now)

	var labels []string
	switch g {
	case GranularityMonthly:
		labels = make([]string, 0, monthlyBuckets)
		for i := monthlyBuckets - 1; i >= 0; i-- {
			// Anchor at the first of the month so month arithmetic never
			// normalizes across a short month.
			m := time.Date(today.Year(), today.Month()-time.Month(i), 1, 0, 0, 0, 0, today.Location())
			labels = append(labels, monthKey(m))
		}
	case GranularityWeekly:
		labels = make([]string, 0, weeklyBuckets)
		for i := weeklyBuckets - 1; i >= 0; i-- {
			labels = append(labels, weekKey(today.AddDate(0, 0, -i*7)))
		}
	default:
		labels = make([]string, 0, dailyBuckets)
		for i := dailyBuckets - 1; i >= 0; i-- {
			labels = append(labels, dayKey(today.AddDate(0, 0, -i)))
		}
	}

	counts := make(map[string]int, len(labels))
	for _, label := range labels {
		counts[label] = 0
	}

	keyFn := dayKey
	switch g {
	case GranularityMonthly:
		keyFn = monthKey
	case GranularityWeekly:
		keyFn = weekKey
	}

	for _, t := range tickets {
		if t.CreatedAt == nil {
			continue
		}
		key := keyFn(t.CreatedAt.In(now.Location()))
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	values := make([]int, len(labels))
	for i, label := range labels {
		values[i] = counts[label]
	}
	return Series{Labels: labels, Values: values}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart aligns a date to its Monday. Go's Sunday-based weekday matches
// the (weekday+6)%7 back-offset convention.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	return weekStart(t).Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
