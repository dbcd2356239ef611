package domain

import (
	"math"
	"strconv"
	"time"
)

// dayRangeReferenceYear anchors percent-to-date display labels. A fixed
// non-leap year keeps labels stable regardless of when they are rendered;
// tickets themselves are mapped with their actual calendar ordinal day.
const dayRangeReferenceYear = 2025

// PercentToDay converts a slider percentage in [0,100] to a 1-based day of
// year, clamped to [1,366]. Out-of-range input clamps rather than errors so
// a drag past the track edge behaves like a drag to the edge.
func PercentToDay(pct float64) int {
	day := int(math.Round(1 + 365*pct/100))
	if day < 1 {
		return 1
	}
	if day > 366 {
		return 366
	}
	return day
}

// DayOfYearLabel renders a slider percentage as a "month/day" label in the
// reference year, e.g. 50% -> "7/3".
func DayOfYearLabel(pct float64) string {
	day := PercentToDay(pct)
	d := time.Date(dayRangeReferenceYear, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	return strconv.Itoa(int(d.Month())) + "/" + strconv.Itoa(d.Day())
}
