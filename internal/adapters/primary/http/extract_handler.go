package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itdesk/extract-service/internal/adapters/primary/validation"
	"github.com/itdesk/extract-service/internal/core/domain"
	apperrors "github.com/itdesk/extract-service/internal/core/errors"
	"github.com/itdesk/extract-service/internal/core/ports"
)

const maxSelectedColumns = 50

// ExtractHandler handles HTTP requests for the data-extract page
type ExtractHandler struct {
	extractService ports.ExtractService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(
	extractService ports.ExtractService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ExtractHandler {
	return &ExtractHandler{
		extractService: extractService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "extract"),
	}
}

// Router sets up a new chi Router for all extract routes.
func (h *ExtractHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all extract endpoints.
func (h *ExtractHandler) RegisterRoutes(r chi.Router) {
	r.Get("/columns", h.HandleColumns)
	r.Get("/facets", h.HandleFacets)
	r.Post("/query", h.HandleQuery)
	r.Post("/export", h.HandleExport)
	r.Post("/refresh", h.HandleRefresh)
}

// --- Request/Response DTOs ---

// ColumnDTO describes one extractable column for the UI
type ColumnDTO struct {
	Key             string `json:"key"`
	Label           string `json:"label"`
	Section         string `json:"section,omitempty"`
	FilterKind      string `json:"filterKind"`
	DropPlaceholder bool   `json:"dropPlaceholder,omitempty"`
}

// ColumnsResponse is the column catalog for one variant
type ColumnsResponse struct {
	Variant  string      `json:"variant"`
	Sections []string    `json:"sections,omitempty"`
	Columns  []ColumnDTO `json:"columns"`
}

// DatetimeFacetsDTO carries the calendar-part facet values of one column
type DatetimeFacetsDTO struct {
	Years  []int `json:"years"`
	Months []int `json:"months"`
	Days   []int `json:"days"`
	Hours  []int `json:"hours"`
}

// FacetsResponse is the distinct-value index for one variant
type FacetsResponse struct {
	Variant  string                       `json:"variant"`
	Values   map[string][]string          `json:"values"`
	Datetime map[string]DatetimeFacetsDTO `json:"datetime,omitempty"`
}

// QueryRequest defines the expected JSON body for query and export
type QueryRequest struct {
	Variant string   `json:"variant"`
	Columns []string `json:"columns"`
	// Exclusions maps a facet key to the display values to drop
	Exclusions map[string][]string `json:"exclusions"`
	// IncludeYears limits the day-of-year range filter to the listed years.
	// Empty means every year passes.
	IncludeYears []string `json:"includeYears"`
	// DayRangePercent is the [start, end] slider position in percent.
	// Absent means the whole year.
	DayRangePercent *[2]float64 `json:"dayRangePercent"`
}

// Validate validates the query request
func (r *QueryRequest) Validate() error {
	v := validation.NewValidator()

	v.OneOf("variant", r.Variant, []string{string(domain.VariantExtract), string(domain.VariantDatetime)})
	v.MaxItems("columns", len(r.Columns), maxSelectedColumns)

	if r.DayRangePercent != nil {
		v.FloatRange("dayRangePercent", r.DayRangePercent[0], 0, 100)
		v.FloatRange("dayRangePercent", r.DayRangePercent[1], 0, 100)
		v.Custom("dayRangePercent", r.DayRangePercent[0] <= r.DayRangePercent[1],
			"Start must not be greater than end")
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// toQueryParams converts the DTO to service parameters
func (r *QueryRequest) toQueryParams() (ports.QueryParams, error) {
	variant, ok := domain.ParseVariant(r.Variant)
	if !ok {
		return ports.QueryParams{}, apperrors.ErrUnknownVariant
	}

	filter := domain.NewFilterState()
	for key, values := range r.Exclusions {
		filter.Exclusions[key] = domain.NewExclusionFacet(values...)
	}
	filter.YearsIncluded = domain.NewInclusionFacet(r.IncludeYears...)
	if r.DayRangePercent != nil {
		filter.DayRange = domain.DayRangePercent{
			Start: r.DayRangePercent[0],
			End:   r.DayRangePercent[1],
		}
	}

	return ports.QueryParams{
		Variant: variant,
		Columns: r.Columns,
		Filter:  filter,
	}, nil
}

// QueryResponse is a column-projected view of the filtered snapshot
type QueryResponse struct {
	Columns []ColumnDTO `json:"columns"`
	Rows    [][]string  `json:"rows"`
	Matched int         `json:"matched"`
	Total   int         `json:"total"`
}

// RefreshResponse reports the snapshot state after a reload
type RefreshResponse struct {
	TicketCount int    `json:"ticketCount"`
	LoadedAt    string `json:"loadedAt"`
}

func toColumnDTO(c domain.ColumnDefinition) ColumnDTO {
	return ColumnDTO{
		Key:             c.Key,
		Label:           c.Label,
		Section:         c.Section,
		FilterKind:      string(c.Kind),
		DropPlaceholder: c.DropPlaceholder,
	}
}

func toColumnDTOs(columns []domain.ColumnDefinition) []ColumnDTO {
	out := make([]ColumnDTO, 0, len(columns))
	for _, c := range columns {
		out = append(out, toColumnDTO(c))
	}
	return out
}

// --- Handlers ---

// HandleColumns handles GET /extract/columns
func (h *ExtractHandler) HandleColumns(w http.ResponseWriter, r *http.Request) {
	variant, ok := domain.ParseVariant(r.URL.Query().Get("variant"))
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnknownVariant)
		return
	}

	response := ColumnsResponse{
		Variant: string(variant),
		Columns: toColumnDTOs(h.extractService.Columns(variant)),
	}
	if variant == domain.VariantExtract {
		response.Sections = domain.SectionOrder
	}

	WriteJSON(w, http.StatusOK, response)
}

// HandleFacets handles GET /extract/facets
func (h *ExtractHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	variant, ok := domain.ParseVariant(r.URL.Query().Get("variant"))
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnknownVariant)
		return
	}

	index, err := h.extractService.Facets(r.Context(), variant)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := FacetsResponse{
		Variant: string(variant),
		Values:  index.Values,
	}
	if len(index.Datetime) > 0 {
		response.Datetime = make(map[string]DatetimeFacetsDTO, len(index.Datetime))
		for key, sets := range index.Datetime {
			response.Datetime[key] = DatetimeFacetsDTO{
				Years:  sets.Years,
				Months: sets.Months,
				Days:   sets.Days,
				Hours:  sets.Hours,
			}
		}
	}

	WriteJSON(w, http.StatusOK, response)
}

// HandleQuery handles POST /extract/query
func (h *ExtractHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[QueryRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toQueryParams()
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.extractService.Query(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, QueryResponse{
		Columns: toColumnDTOs(result.Columns),
		Rows:    result.Rows,
		Matched: result.Matched,
		Total:   result.Total,
	})
}

// HandleExport handles POST /extract/export
func (h *ExtractHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[QueryRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := req.toQueryParams()
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.extractService.Export(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("csv export served",
		"filename", result.Filename,
		"rows", result.Matched,
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.CSV))
}

// HandleRefresh handles POST /extract/refresh
func (h *ExtractHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	info, err := h.extractService.Refresh(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, RefreshResponse{
		TicketCount: info.TicketCount,
		LoadedAt:    info.LoadedAt.UTC().Format(time.RFC3339),
	})
}
