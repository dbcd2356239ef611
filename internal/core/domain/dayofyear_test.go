package domain_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itdesk/extract-service/internal/core/domain"
)

func TestPercentToDay(t *testing.T) {
	t.Run("clamps below and above the track", func(t *testing.T) {
		assert.Equal(t, 1, domain.PercentToDay(-5))
		assert.Equal(t, 1, domain.PercentToDay(0))
		assert.Equal(t, 366, domain.PercentToDay(100))
		assert.Equal(t, 366, domain.PercentToDay(105))
	})

	t.Run("maps interior percentages", func(t *testing.T) {
		assert.Equal(t, 184, domain.PercentToDay(50))
		assert.Equal(t, 92, domain.PercentToDay(25))
	})
}

func TestDayOfYearLabel(t *testing.T) {
	assert.Equal(t, "1/1", domain.DayOfYearLabel(0))
	// Day 184 of the non-leap reference year is July 3.
	assert.Equal(t, "7/3", domain.DayOfYearLabel(50))
	// Day 366 overflows the non-leap reference into January 1.
	assert.Equal(t, "1/1", domain.DayOfYearLabel(100))
}

func TestDayRangePercent_DragOrdering(t *testing.T) {
	t.Run("start clamps against end", func(t *testing.T) {
		r := domain.DayRangePercent{Start: 20, End: 60}
		r = r.DragStart(80)
		assert.Equal(t, 60.0, r.Start)
		assert.Equal(t, 60.0, r.End)
	})

	t.Run("end clamps against start", func(t *testing.T) {
		r := domain.DayRangePercent{Start: 40, End: 90}
		r = r.DragEnd(10)
		assert.Equal(t, 40.0, r.Start)
		assert.Equal(t, 40.0, r.End)
	})

	t.Run("ordering holds across arbitrary drag sequences", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		r := domain.FullDayRange()
		for i := 0; i < 1000; i++ {
			pos := rng.Float64()*140 - 20 // deliberately outside [0,100] too
			if rng.Intn(2) == 0 {
				r = r.DragStart(pos)
			} else {
				r = r.DragEnd(pos)
			}
			assert.LessOrEqual(t, r.Start, r.End)
			assert.GreaterOrEqual(t, r.Start, 0.0)
			assert.LessOrEqual(t, r.End, 100.0)
		}
	})
}
