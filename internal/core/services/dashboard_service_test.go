package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdesk/extract-service/internal/core/domain"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
	"github.com/itdesk/extract-service/internal/core/mocks"
	"github.com/itdesk/extract-service/internal/core/services"
)

func TestDashboardService_Series(t *testing.T) {
	t.Run("builds a daily series from the snapshot", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("SnapshotTickets").Return(sampleTickets(), sampleCategories(), nil)

		svc := services.NewDashboardService(provider, testLogger())

		series, err := svc.Series(context.Background(), domain.GranularityDaily)

		require.NoError(t, err)
		assert.Len(t, series.Labels, 365)
		assert.Len(t, series.Values, 365)
		provider.AssertExpectations(t)
	})

	t.Run("propagates a missing snapshot", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("SnapshotTickets").Return(nil, nil, apperrors.ErrSnapshotNotLoaded)

		svc := services.NewDashboardService(provider, testLogger())

		_, err := svc.Series(context.Background(), domain.GranularityWeekly)

		assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)
	})
}

func TestDashboardService_Stats(t *testing.T) {
	t.Run("counts pending tickets and breakdowns", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("SnapshotTickets").Return(sampleTickets(), sampleCategories(), nil)

		svc := services.NewDashboardService(provider, testLogger())

		stats, err := svc.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalPending)
		require.NotEmpty(t, stats.ByStatus)
		assert.Equal(t, "Open", stats.ByStatus[0].Label)
		assert.Equal(t, 1, stats.ByStatus[0].Value)
	})

	t.Run("propagates a missing snapshot", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("SnapshotTickets").Return(nil, nil, apperrors.ErrSnapshotNotLoaded)

		svc := services.NewDashboardService(provider, testLogger())

		_, err := svc.Stats(context.Background())

		assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)
	})
}

func TestDashboardService_EndToEndWithExtractService(t *testing.T) {
	// The dashboard reads the same snapshot the extract service holds.
	extract, _ := newRefreshedService(t)
	dashboard := services.NewDashboardService(extract, testLogger())

	stats, err := dashboard.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPending)

	var total int
	for _, item := range stats.ByStatus {
		total += item.Value
	}
	assert.Equal(t, 2, total)

	series, err := dashboard.Series(context.Background(), domain.GranularityMonthly)
	require.NoError(t, err)
	assert.Len(t, series.Labels, 12)
}
