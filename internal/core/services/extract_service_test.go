package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itdesk/extract-service/internal/core/domain"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
	"github.com/itdesk/extract-service/internal/core/mocks"
	"github.com/itdesk/extract-service/internal/core/ports"
	"github.com/itdesk/extract-service/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func timePtr(t time.Time) *time.Time { return &t }

func sampleTickets() []*domain.Ticket {
	created1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	created2 := time.Date(2024, 7, 15, 14, 30, 0, 0, time.UTC)
	id := int64(1)
	return []*domain.Ticket{
		{
			ID:             101,
			Title:          "VPN down",
			Status:         domain.StatusOpen,
			Priority:       domain.PriorityHigh,
			CategoryID:     &id,
			RequesterEmpNo: "E100",
			CreatedAt:      timePtr(created1),
		},
		{
			ID:             102,
			Title:          "New laptop",
			Status:         domain.StatusClosed,
			Priority:       domain.PriorityLow,
			RequesterEmpNo: "E200",
			CreatedAt:      timePtr(created2),
		},
	}
}

func sampleCategories() domain.CategoryMap {
	return domain.CategoryMap{1: "Network"}
}

func newRefreshedService(t *testing.T) (*services.ExtractService, *mocks.MockEventBroadcaster) {
	t.Helper()

	ticketSource := mocks.NewMockTicketSource()
	categorySource := mocks.NewMockCategorySource()
	broadcaster := mocks.NewMockEventBroadcaster()

	ticketSource.On("LoadTickets", mock.Anything, 1000).Return(sampleTickets(), nil)
	categorySource.On("LoadCategories", mock.Anything).Return(sampleCategories(), nil)
	broadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).Return(nil)

	svc := services.NewExtractService(ticketSource, categorySource, broadcaster, 1000, testLogger())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	return svc, broadcaster
}

func TestExtractService_Refresh(t *testing.T) {
	t.Run("loads snapshot and broadcasts event", func(t *testing.T) {
		ticketSource := mocks.NewMockTicketSource()
		categorySource := mocks.NewMockCategorySource()
		broadcaster := mocks.NewMockEventBroadcaster()

		ticketSource.On("LoadTickets", mock.Anything, 500).Return(sampleTickets(), nil)
		categorySource.On("LoadCategories", mock.Anything).Return(sampleCategories(), nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventSnapshotRefreshed
		})).Return(nil)

		svc := services.NewExtractService(ticketSource, categorySource, broadcaster, 500, testLogger())

		info, err := svc.Refresh(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, info.TicketCount)
		assert.False(t, info.LoadedAt.IsZero())

		got, ok := svc.Snapshot()
		require.True(t, ok)
		assert.Equal(t, 2, got.TicketCount)

		ticketSource.AssertExpectations(t)
		categorySource.AssertExpectations(t)
		broadcaster.AssertExpectations(t)
	})

	t.Run("source failure keeps previous snapshot", func(t *testing.T) {
		ticketSource := mocks.NewMockTicketSource()
		categorySource := mocks.NewMockCategorySource()

		ticketSource.On("LoadTickets", mock.Anything, 1000).Return(sampleTickets(), nil).Once()
		categorySource.On("LoadCategories", mock.Anything).Return(sampleCategories(), nil).Once()

		svc := services.NewExtractService(ticketSource, categorySource, nil, 1000, testLogger())
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)

		ticketSource.On("LoadTickets", mock.Anything, 1000).
			Return(nil, errors.New("connection reset")).Once()

		_, err = svc.Refresh(context.Background())
		require.Error(t, err)

		info, ok := svc.Snapshot()
		require.True(t, ok)
		assert.Equal(t, 2, info.TicketCount)
	})

	t.Run("works without a broadcaster", func(t *testing.T) {
		ticketSource := mocks.NewMockTicketSource()
		categorySource := mocks.NewMockCategorySource()

		ticketSource.On("LoadTickets", mock.Anything, 1000).Return(sampleTickets(), nil)
		categorySource.On("LoadCategories", mock.Anything).Return(sampleCategories(), nil)

		svc := services.NewExtractService(ticketSource, categorySource, nil, 1000, testLogger())

		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	})
}

func TestExtractService_SnapshotNotLoaded(t *testing.T) {
	svc := services.NewExtractService(mocks.NewMockTicketSource(), mocks.NewMockCategorySource(), nil, 1000, testLogger())

	_, ok := svc.Snapshot()
	assert.False(t, ok)

	_, _, err := svc.SnapshotTickets()
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)

	_, err = svc.Facets(context.Background(), domain.VariantExtract)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)

	_, err = svc.Query(context.Background(), ports.QueryParams{Variant: domain.VariantExtract})
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)

	_, err = svc.Export(context.Background(), ports.QueryParams{Variant: domain.VariantExtract})
	assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)
}

func TestExtractService_Facets(t *testing.T) {
	svc, _ := newRefreshedService(t)

	index, err := svc.Facets(context.Background(), domain.VariantExtract)
	require.NoError(t, err)

	assert.Equal(t, []string{"Business Review", "Open"}, index.Values[domain.ColumnStatus])
	assert.Equal(t, []string{"Network"}, index.Values[domain.ColumnCategoryDisplay])
	assert.Equal(t, []string{"2024"}, index.Values[domain.PartKey(domain.ColumnCreatedAt, domain.PartYear)])

	// Memoized until the next refresh.
	again, err := svc.Facets(context.Background(), domain.VariantExtract)
	require.NoError(t, err)
	assert.Equal(t, index, again)
}

func TestExtractService_Query(t *testing.T) {
	t.Run("projects selected columns", func(t *testing.T) {
		svc, _ := newRefreshedService(t)

		result, err := svc.Query(context.Background(), ports.QueryParams{
			Variant: domain.VariantExtract,
			Columns: []string{domain.ColumnTitle, domain.ColumnStatus, domain.ColumnCategoryDisplay},
			Filter:  domain.NewFilterState(),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Matched)
		assert.Equal(t, 2, result.Total)
		require.Len(t, result.Rows, 2)
		assert.Equal(t, []string{"VPN down", "Open", "Network"}, result.Rows[0])
		assert.Equal(t, []string{"New laptop", "Business Review", "-"}, result.Rows[1])
	})

	t.Run("empty selection takes the whole catalog", func(t *testing.T) {
		svc, _ := newRefreshedService(t)

		result, err := svc.Query(context.Background(), ports.QueryParams{
			Variant: domain.VariantExtract,
			Filter:  domain.NewFilterState(),
		})

		require.NoError(t, err)
		assert.Len(t, result.Columns, len(domain.ColumnsFor(domain.VariantExtract)))
	})

	t.Run("exclusion narrows the result but not the total", func(t *testing.T) {
		svc, _ := newRefreshedService(t)

		filter := domain.NewFilterState()
		filter.ToggleExclusion(domain.ColumnStatus, domain.StatusLabel(domain.StatusClosed))

		result, err := svc.Query(context.Background(), ports.QueryParams{
			Variant: domain.VariantExtract,
			Columns: []string{domain.ColumnID},
			Filter:  filter,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Matched)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, [][]string{{"101"}}, result.Rows)
	})

	t.Run("explicitly empty selection is rejected", func(t *testing.T) {
		svc, _ := newRefreshedService(t)

		_, err := svc.Query(context.Background(), ports.QueryParams{
			Variant: domain.VariantExtract,
			Columns: []string{},
			Filter:  domain.NewFilterState(),
		})

		assert.ErrorIs(t, err, apperrors.ErrNoColumnsSelected)
	})

	t.Run("day range outside the track is rejected", func(t *testing.T) {
		svc, _ := newRefreshedService(t)

		filter := domain.NewFilterState()
		filter.DayRange = domain.DayRangePercent{Start: -10, End: 120}

		_, err := svc.Query(context.Background(), ports.QueryParams{
			Variant: domain.VariantExtract,
			Filter:  filter,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidDayRange)
	})

	t.Run("unknown column is rejected", func(t *testing.T) {
		svc, _ := newRefreshedService(t)

		_, err := svc.Query(context.Background(), ports.QueryParams{
			Variant: domain.VariantExtract,
			Columns: []string{domain.ColumnID, "severity"},
			Filter:  domain.NewFilterState(),
		})

		assert.ErrorIs(t, err, apperrors.ErrUnknownColumn)
		assert.Contains(t, err.Error(), "severity")
	})
}

func TestExtractService_Export(t *testing.T) {
	svc, _ := newRefreshedService(t)

	result, err := svc.Export(context.Background(), ports.QueryParams{
		Variant: domain.VariantExtract,
		Columns: []string{domain.ColumnID, domain.ColumnTitle},
		Filter:  domain.NewFilterState(),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, domain.ExportFilename(time.Now()), result.Filename)
	assert.Contains(t, result.CSV, "ID,Title")
	assert.Contains(t, result.CSV, "101,VPN down")
	assert.Contains(t, result.CSV, "102,New laptop")
}

func TestExtractService_Export_InvertedDayRange(t *testing.T) {
	svc, _ := newRefreshedService(t)

	filter := domain.NewFilterState()
	filter.DayRange = domain.DayRangePercent{Start: 80, End: 20}

	_, err := svc.Export(context.Background(), ports.QueryParams{
		Variant: domain.VariantExtract,
		Filter:  filter,
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidDayRange)
}
