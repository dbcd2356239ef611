package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/itdesk/extract-service/internal/core/domain"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
	"github.com/itdesk/extract-service/internal/core/ports"
)

// snapshot is one immutable load of the ticket collection. A refresh
// builds a new snapshot and swaps it in wholesale; computations in flight
// keep reading the one they started with.
type snapshot struct {
	tickets    []*domain.Ticket
	categories domain.CategoryMap
	loadedAt   time.Time
}

// indexCacheEntry caches one distinct-value index per (snapshot, variant).
type indexCacheEntry struct {
	snap  *snapshot
	index domain.DistinctIndex
}

// ExtractService implements the data-extract use cases over an in-memory
// ticket snapshot.
type ExtractService struct {
	tickets     ports.TicketSource
	categories  ports.CategorySource
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
	limit       int

	mu    sync.RWMutex
	snap  *snapshot
	cache map[domain.Variant]indexCacheEntry
}

var (
	_ ports.ExtractService   = (*ExtractService)(nil)
	_ ports.SnapshotProvider = (*ExtractService)(nil)
)

// NewExtractService creates the extract service. limit caps the snapshot
// size (the admin UI fetches at most ~1000 records).
func NewExtractService(
	tickets ports.TicketSource,
	categories ports.CategorySource,
	broadcaster ports.EventBroadcaster,
	limit int,
	logger *slog.Logger,
) *ExtractService {
	return &ExtractService{
		tickets:     tickets,
		categories:  categories,
		broadcaster: broadcaster,
		logger:      logger.With("service", "extract"),
		limit:       limit,
		cache:       make(map[domain.Variant]indexCacheEntry),
	}
}

// Refresh loads a fresh snapshot from the sources and replaces the
// resident one wholesale. There is no partial merge: readers see either
// the old snapshot or the new one, never a mix.
func (s *ExtractService) Refresh(ctx context.Context) (ports.SnapshotInfo, error) {
	tickets, err := s.tickets.LoadTickets(ctx, s.limit)
	if err != nil {
		return ports.SnapshotInfo{}, fmt.Errorf("load tickets: %w", err)
	}

	categories, err := s.categories.LoadCategories(ctx)
	if err != nil {
		return ports.SnapshotInfo{}, fmt.Errorf("load categories: %w", err)
	}

	next := &snapshot{
		tickets:    tickets,
		categories: categories,
		loadedAt:   time.Now(),
	}

	s.mu.Lock()
	s.snap = next
	s.cache = make(map[domain.Variant]indexCacheEntry)
	s.mu.Unlock()

	info := ports.SnapshotInfo{TicketCount: len(tickets), LoadedAt: next.loadedAt}

	s.logger.Info("snapshot refreshed", "tickets", info.TicketCount)

	if s.broadcaster != nil {
		_ = s.broadcaster.Broadcast(domain.Event{
			Type: domain.EventSnapshotRefreshed,
			Payload: domain.SnapshotRefreshedPayload{
				TicketCount: info.TicketCount,
				LoadedAt:    info.LoadedAt,
			},
		})
	}

	return info, nil
}

// Snapshot reports the resident snapshot, if one has been loaded.
func (s *ExtractService) Snapshot() (ports.SnapshotInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return ports.SnapshotInfo{}, false
	}
	return ports.SnapshotInfo{TicketCount: len(s.snap.tickets), LoadedAt: s.snap.loadedAt}, true
}

// SnapshotTickets exposes the resident snapshot to sibling services
// (the dashboard aggregator reads the same tickets).
func (s *ExtractService) SnapshotTickets() ([]*domain.Ticket, domain.CategoryMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, nil, apperrors.ErrSnapshotNotLoaded
	}
	return s.snap.tickets, s.snap.categories, nil
}

// Columns returns the column catalog for a variant.
func (s *ExtractService) Columns(variant domain.Variant) []domain.ColumnDefinition {
	return domain.ColumnsFor(variant)
}

// Facets returns the distinct-value index for the resident snapshot,
// memoized per snapshot and variant.
func (s *ExtractService) Facets(ctx context.Context, variant domain.Variant) (domain.DistinctIndex, error) {
	snap, err := s.currentSnapshot()
	if err != nil {
		return domain.DistinctIndex{}, err
	}

	s.mu.RLock()
	entry, ok := s.cache[variant]
	s.mu.RUnlock()
	if ok && entry.snap == snap {
		return entry.index, nil
	}

	index := domain.BuildDistinctIndex(snap.tickets, domain.ColumnsFor(variant), snap.categories)

	s.mu.Lock()
	// A refresh may have landed while we computed; only cache against the
	// snapshot we actually indexed.
	s.cache[variant] = indexCacheEntry{snap: snap, index: index}
	s.mu.Unlock()

	return index, nil
}

// Query filters the snapshot and projects the selected columns into
// display cells.
func (s *ExtractService) Query(ctx context.Context, params ports.QueryParams) (*ports.QueryResult, error) {
	snap, err := s.currentSnapshot()
	if err != nil {
		return nil, err
	}

	catalog := domain.ColumnsFor(params.Variant)
	selected, err := selectColumns(catalog, params.Columns)
	if err != nil {
		return nil, err
	}
	if err := validateDayRange(params.Filter.DayRange); err != nil {
		return nil, err
	}

	filtered := domain.ApplyFilters(snap.tickets, catalog, params.Filter, snap.categories)

	rows := make([][]string, len(filtered))
	for i, ticket := range filtered {
		cells := make([]string, len(selected))
		for j, col := range selected {
			cells[j] = domain.ExtractValue(ticket, col.Key, snap.categories)
		}
		rows[i] = cells
	}

	return &ports.QueryResult{
		Columns: selected,
		Rows:    rows,
		Matched: len(filtered),
		Total:   len(snap.tickets),
	}, nil
}

// Export filters the snapshot and renders the selected columns as CSV.
func (s *ExtractService) Export(ctx context.Context, params ports.QueryParams) (*ports.ExportResult, error) {
	snap, err := s.currentSnapshot()
	if err != nil {
		return nil, err
	}

	catalog := domain.ColumnsFor(params.Variant)
	selected, err := selectColumns(catalog, params.Columns)
	if err != nil {
		return nil, err
	}
	if err := validateDayRange(params.Filter.DayRange); err != nil {
		return nil, err
	}

	filtered := domain.ApplyFilters(snap.tickets, catalog, params.Filter, snap.categories)
	csv := domain.TicketsCSV(filtered, selected, snap.categories)

	s.logger.Info("csv export",
		"columns", len(selected),
		"rows", len(filtered),
	)

	return &ports.ExportResult{
		Filename: domain.ExportFilename(time.Now()),
		CSV:      csv,
		Matched:  len(filtered),
	}, nil
}

func (s *ExtractService) currentSnapshot() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, apperrors.ErrSnapshotNotLoaded
	}
	return s.snap, nil
}

// selectColumns resolves the requested keys against the catalog. An omitted
// selection (nil) means every column; an explicitly empty one is rejected.
func selectColumns(catalog []domain.ColumnDefinition, keys []string) ([]domain.ColumnDefinition, error) {
	if keys == nil {
		return catalog, nil
	}
	if len(keys) == 0 {
		return nil, apperrors.ErrNoColumnsSelected
	}
	selected, unknown := domain.SelectColumns(catalog, keys)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownColumn, strings.Join(unknown, ", "))
	}
	return selected, nil
}

// validateDayRange rejects slider positions outside [0, 100] or inverted.
func validateDayRange(r domain.DayRangePercent) error {
	if r.Start < 0 || r.End > 100 || r.Start > r.End {
		return fmt.Errorf("%w: [%.1f, %.1f]", apperrors.ErrInvalidDayRange, r.Start, r.End)
	}
	return nil
}
