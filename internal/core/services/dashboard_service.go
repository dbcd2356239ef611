package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/itdesk/extract-service/internal/core/domain"
	"github.com/itdesk/extract-service/internal/core/ports"
)

// DashboardService aggregates the resident ticket snapshot into the
// admin dashboard's chart series and headline counters.
type DashboardService struct {
	snapshot ports.SnapshotProvider
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates the dashboard service on top of a snapshot
// provider (in practice the extract service).
func NewDashboardService(snapshot ports.SnapshotProvider, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		snapshot: snapshot,
		logger:   logger.With("service", "dashboard"),
		now:      time.Now,
	}
}

// Series builds the trailing time-bucketed creation series at the given
// granularity.
func (s *DashboardService) Series(ctx context.Context, granularity domain.Granularity) (domain.Series, error) {
	tickets, _, err := s.snapshot.SnapshotTickets()
	if err != nil {
		return domain.Series{}, err
	}
	return domain.BuildSeries(tickets, granularity, s.now()), nil
}

// Stats builds the headline counters and breakdowns.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	tickets, categories, err := s.snapshot.SnapshotTickets()
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.BuildStats(tickets, categories, s.now()), nil
}
