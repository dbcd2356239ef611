package ports

import (
	"context"
	"time"

	"github.com/itdesk/extract-service/internal/core/domain"
)

// QueryParams describes one extract-page query: which catalog variant,
// which columns to project, and the full facet state.
type QueryParams struct {
	Variant domain.Variant
	// Columns are the selected column keys, in projection order. Empty
	// selects the whole catalog.
	Columns []string
	Filter  domain.FilterState
}

// QueryResult is a column-projected view of the filtered snapshot.
type QueryResult struct {
	Columns []domain.ColumnDefinition
	// Rows are the extracted display cells, parallel to Columns.
	Rows [][]string
	// Matched is the filtered count; Total the full snapshot size.
	Matched int
	Total   int
}

// ExportResult carries rendered CSV text plus its download filename.
type ExportResult struct {
	Filename string
	CSV      string
	Matched  int
}

// SnapshotInfo describes the currently resident ticket snapshot.
type SnapshotInfo struct {
	TicketCount int
	LoadedAt    time.Time
}

// ExtractService is the data-extract page's backend: filter vocabulary,
// filtered projections, and CSV export over the resident snapshot.
type ExtractService interface {
	Columns(variant domain.Variant) []domain.ColumnDefinition
	Facets(ctx context.Context, variant domain.Variant) (domain.DistinctIndex, error)
	Query(ctx context.Context, params QueryParams) (*QueryResult, error)
	Export(ctx context.Context, params QueryParams) (*ExportResult, error)
	Refresh(ctx context.Context) (SnapshotInfo, error)
	Snapshot() (SnapshotInfo, bool)
}

// SnapshotProvider exposes the resident snapshot to sibling services.
type SnapshotProvider interface {
	SnapshotTickets() ([]*domain.Ticket, domain.CategoryMap, error)
}

// DashboardService aggregates the snapshot into chart series and headline
// stats.
type DashboardService interface {
	Series(ctx context.Context, granularity domain.Granularity) (domain.Series, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
}
