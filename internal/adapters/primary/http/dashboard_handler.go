package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itdesk/extract-service/internal/core/domain"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
	"github.com/itdesk/extract-service/internal/core/ports"
)

// DashboardHandler handles HTTP requests for the admin dashboard
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
	}
}

// Router sets up a new chi Router for all dashboard routes.
func (h *DashboardHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/series", h.HandleSeries)
	r.Get("/stats", h.HandleStats)
}

// --- Response DTOs ---

// SeriesResponse is one trailing creation-trend series
type SeriesResponse struct {
	Granularity string   `json:"granularity"`
	Labels      []string `json:"labels"`
	Values      []int    `json:"values"`
}

// BreakdownItemDTO is one labeled chart slice
type BreakdownItemDTO struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// StatsResponse carries the dashboard's headline counters and breakdowns
type StatsResponse struct {
	TodayNew      int                `json:"todayNew"`
	TodayResolved int                `json:"todayResolved"`
	TotalPending  int                `json:"totalPending"`
	ByCategory    []BreakdownItemDTO `json:"byCategory"`
	ByWorkType    []BreakdownItemDTO `json:"byWorkType"`
	ByStatus      []BreakdownItemDTO `json:"byStatus"`
}

func toBreakdownDTOs(items []domain.BreakdownItem) []BreakdownItemDTO {
	out := make([]BreakdownItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, BreakdownItemDTO{Label: item.Label, Value: item.Value})
	}
	return out
}

// --- Handlers ---

// HandleSeries handles GET /dashboard/series
func (h *DashboardHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	granularity, ok := domain.ParseGranularity(r.URL.Query().Get("granularity"))
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrInvalidGranularity)
		return
	}

	series, err := h.dashboardService.Series(r.Context(), granularity)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, SeriesResponse{
		Granularity: string(granularity),
		Labels:      series.Labels,
		Values:      series.Values,
	})
}

// HandleStats handles GET /dashboard/stats
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, StatsResponse{
		TodayNew:      stats.TodayNew,
		TodayResolved: stats.TodayResolved,
		TotalPending:  stats.TotalPending,
		ByCategory:    toBreakdownDTOs(stats.ByCategory),
		ByWorkType:    toBreakdownDTOs(stats.ByWorkType),
		ByStatus:      toBreakdownDTOs(stats.ByStatus),
	})
}
