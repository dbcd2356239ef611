package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdesk/extract-service/internal/core/domain"
)

func extractCols() []domain.ColumnDefinition {
	return domain.ColumnsFor(domain.VariantExtract)
}

func datetimeCols() []domain.ColumnDefinition {
	return domain.ColumnsFor(domain.VariantDatetime)
}

// statusTickets builds tickets that always pass the created_at range filter
// so discrete-facet behavior can be observed in isolation.
func statusTickets(statuses ...domain.TicketStatus) []*domain.Ticket {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*domain.Ticket, len(statuses))
	for i, s := range statuses {
		out[i] = &domain.Ticket{
			ID:             int64(i + 1),
			Status:         s,
			RequesterEmpNo: "E1",
			CreatedAt:      timePtr(created),
		}
	}
	return out
}

func TestApplyFilters_Discrete(t *testing.T) {
	tickets := statusTickets(domain.StatusOpen, domain.StatusClosed, domain.StatusOpen)

	t.Run("empty state passes everything in order", func(t *testing.T) {
		got := domain.ApplyFilters(tickets, extractCols(), domain.NewFilterState(), nil)
		require.Len(t, got, 3)
		assert.Equal(t, tickets, got)
	})

	t.Run("exclusion drops matching tickets, keeps order", func(t *testing.T) {
		state := domain.NewFilterState()
		state.Exclusions[domain.ColumnStatus] = domain.NewExclusionFacet(domain.StatusLabel(domain.StatusClosed))

		got := domain.ApplyFilters(tickets, extractCols(), state, nil)
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("placeholder is excludable like any other value", func(t *testing.T) {
		tickets := statusTickets(domain.StatusOpen, "")
		state := domain.NewFilterState()
		state.Exclusions[domain.ColumnStatus] = domain.NewExclusionFacet(domain.Placeholder)

		got := domain.ApplyFilters(tickets, extractCols(), state, nil)
		require.Len(t, got, 1)
		assert.Equal(t, domain.StatusOpen, got[0].Status)
	})
}

func TestApplyFilters_ToggleIdempotence(t *testing.T) {
	tickets := statusTickets(domain.StatusOpen, domain.StatusClosed, domain.StatusResolved)
	label := domain.StatusLabel(domain.StatusClosed)

	state := domain.NewFilterState()
	before := domain.ApplyFilters(tickets, extractCols(), state, nil)

	state.ToggleExclusion(domain.ColumnStatus, label)
	assert.True(t, state.Exclusions[domain.ColumnStatus].Excludes(label))

	state.ToggleExclusion(domain.ColumnStatus, label)
	assert.True(t, state.Exclusions[domain.ColumnStatus].Empty())

	after := domain.ApplyFilters(tickets, extractCols(), state, nil)
	assert.Equal(t, before, after)
}

func TestApplyFilters_DayOfYearRange(t *testing.T) {
	cols := extractCols()

	t.Run("range bounds include and exclude by ordinal day", func(t *testing.T) {
		// [0,50] maps to days 1..184. 2024-03-01 is day 61, 2024-07-15 is
		// day 197 (leap year ordinals).
		inRange := &domain.Ticket{ID: 1, CreatedAt: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))}
		outOfRange := &domain.Ticket{ID: 2, CreatedAt: timePtr(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC))}

		state := domain.NewFilterState()
		state.DayRange = domain.DayRangePercent{Start: 0, End: 50}

		got := domain.ApplyFilters([]*domain.Ticket{inRange, outOfRange}, cols, state, nil)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("missing created timestamp fails closed", func(t *testing.T) {
		noCreated := &domain.Ticket{ID: 1}
		got := domain.ApplyFilters([]*domain.Ticket{noCreated}, cols, domain.NewFilterState(), nil)
		assert.Empty(t, got)
	})

	t.Run("non-empty year set admits only listed years", func(t *testing.T) {
		y2023 := &domain.Ticket{ID: 1, CreatedAt: timePtr(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))}
		y2024 := &domain.Ticket{ID: 2, CreatedAt: timePtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}

		state := domain.NewFilterState()
		state.YearsIncluded = domain.NewInclusionFacet("2024")

		got := domain.ApplyFilters([]*domain.Ticket{y2023, y2024}, cols, state, nil)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("empty year set admits all years", func(t *testing.T) {
		y2023 := &domain.Ticket{ID: 1, CreatedAt: timePtr(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))}
		got := domain.ApplyFilters([]*domain.Ticket{y2023}, cols, domain.NewFilterState(), nil)
		assert.Len(t, got, 1)
	})
}

func TestApplyFilters_DatetimeParts(t *testing.T) {
	cols := datetimeCols()

	t.Run("missing timestamp passes through", func(t *testing.T) {
		// Opposite default from the day-of-year range column: parts-based
		// faceting only constrains tickets that carry a timestamp.
		noCreated := &domain.Ticket{ID: 1}
		state := domain.NewFilterState()
		state.Exclusions[domain.PartKey(domain.ColumnCreatedAt, domain.PartYear)] = domain.NewExclusionFacet("2024")

		got := domain.ApplyFilters([]*domain.Ticket{noCreated}, cols, state, nil)
		assert.Len(t, got, 1)
	})

	t.Run("each part filters independently", func(t *testing.T) {
		morning := &domain.Ticket{ID: 1, CreatedAt: timePtr(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))}
		evening := &domain.Ticket{ID: 2, CreatedAt: timePtr(time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC))}

		state := domain.NewFilterState()
		state.Exclusions[domain.PartKey(domain.ColumnCreatedAt, domain.PartHour)] = domain.NewExclusionFacet("21")

		got := domain.ApplyFilters([]*domain.Ticket{morning, evening}, cols, state, nil)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("year month day exclusions match numeric string forms", func(t *testing.T) {
		ticket := &domain.Ticket{ID: 1, CreatedAt: timePtr(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))}

		for facet, value := range map[string]string{
			domain.PartKey(domain.ColumnCreatedAt, domain.PartYear):  "2024",
			domain.PartKey(domain.ColumnCreatedAt, domain.PartMonth): "3",
			domain.PartKey(domain.ColumnCreatedAt, domain.PartDay):   "5",
		} {
			state := domain.NewFilterState()
			state.Exclusions[facet] = domain.NewExclusionFacet(value)
			got := domain.ApplyFilters([]*domain.Ticket{ticket}, cols, state, nil)
			assert.Empty(t, got, "facet %s=%s should exclude", facet, value)
		}
	})
}
