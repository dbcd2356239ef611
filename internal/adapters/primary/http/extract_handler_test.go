package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itdesk/extract-service/internal/core/domain"
	"github.com/itdesk/extract-service/internal/core/mocks"
	"github.com/itdesk/extract-service/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTimePtr(t time.Time) *time.Time { return &t }

func testTickets() []*domain.Ticket {
	created1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	created2 := time.Date(2024, 7, 15, 14, 30, 0, 0, time.UTC)
	catID := int64(1)
	return []*domain.Ticket{
		{
			ID:             101,
			Title:          "VPN down",
			Status:         domain.StatusOpen,
			Priority:       domain.PriorityHigh,
			CategoryID:     &catID,
			RequesterEmpNo: "E100",
			CreatedAt:      testTimePtr(created1),
		},
		{
			ID:             102,
			Title:          "New laptop",
			Status:         domain.StatusClosed,
			Priority:       domain.PriorityLow,
			RequesterEmpNo: "E200",
			CreatedAt:      testTimePtr(created2),
		},
	}
}

// newExtractService builds a real extract service over mocked sources.
// When refreshed is true the snapshot is pre-loaded.
func newExtractService(t *testing.T, refreshed bool) *services.ExtractService {
	t.Helper()

	ticketSource := mocks.NewMockTicketSource()
	categorySource := mocks.NewMockCategorySource()
	ticketSource.On("LoadTickets", mock.Anything, 1000).Return(testTickets(), nil)
	categorySource.On("LoadCategories", mock.Anything).Return(domain.CategoryMap{1: "Network"}, nil)

	svc := services.NewExtractService(ticketSource, categorySource, nil, 1000, testLogger())
	if refreshed {
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	}
	return svc
}

func newExtractRouter(t *testing.T, refreshed bool) chi.Router {
	t.Helper()

	logger := testLogger()
	handler := NewExtractHandler(newExtractService(t, refreshed), NewErrorHandler(logger), logger)

	r := chi.NewRouter()
	r.Mount("/extract", handler.Router())
	return r
}

func TestExtractHandler_Columns(t *testing.T) {
	router := newExtractRouter(t, true)

	t.Run("default variant returns the sectioned catalog", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodGet, "/extract/columns", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response ColumnsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

		assert.Equal(t, string(domain.VariantExtract), response.Variant)
		assert.Equal(t, domain.SectionOrder, response.Sections)
		assert.Len(t, response.Columns, 14)
		assert.Equal(t, "id", response.Columns[0].Key)
	})

	t.Run("datetime variant is flat", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodGet, "/extract/columns?variant=datetime", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response ColumnsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

		assert.Empty(t, response.Sections)
		created, found := findColumnDTO(response.Columns, "created_at")
		require.True(t, found)
		assert.Equal(t, string(domain.FilterKindDatetimeParts), created.FilterKind)
	})

	t.Run("unknown variant is rejected", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodGet, "/extract/columns?variant=pivot", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
	})
}

func findColumnDTO(columns []ColumnDTO, key string) (ColumnDTO, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnDTO{}, false
}

func TestExtractHandler_Facets(t *testing.T) {
	t.Run("returns distinct display values", func(t *testing.T) {
		router := newExtractRouter(t, true)

		req := httptest.NewRequest(stdhttp.MethodGet, "/extract/facets", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response FacetsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

		assert.Equal(t, []string{"Business Review", "Open"}, response.Values["status"])
		assert.Equal(t, []string{"Network"}, response.Values["category_display"])
	})

	t.Run("unavailable before first refresh", func(t *testing.T) {
		router := newExtractRouter(t, false)

		req := httptest.NewRequest(stdhttp.MethodGet, "/extract/facets", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusServiceUnavailable, recorder.Code)
	})
}

func TestExtractHandler_Query(t *testing.T) {
	router := newExtractRouter(t, true)

	t.Run("filters and projects", func(t *testing.T) {
		payload := []byte(`{
			"variant": "extract",
			"columns": ["id", "status"],
			"exclusions": {"status": ["Business Review"]}
		}`)
		req := httptest.NewRequest(stdhttp.MethodPost, "/extract/query", bytes.NewReader(payload))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response QueryResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

		assert.Equal(t, 1, response.Matched)
		assert.Equal(t, 2, response.Total)
		require.Len(t, response.Rows, 1)
		assert.Equal(t, []string{"101", "Open"}, response.Rows[0])
	})

	t.Run("day range narrows by day of year", func(t *testing.T) {
		// [0, 50] covers days 1..184; only the March 1 ticket (day 61) fits.
		payload := []byte(`{
			"variant": "extract",
			"columns": ["id"],
			"dayRangePercent": [0, 50]
		}`)
		req := httptest.NewRequest(stdhttp.MethodPost, "/extract/query", bytes.NewReader(payload))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response QueryResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, [][]string{{"101"}}, response.Rows)
	})

	t.Run("rejects an out-of-range day range", func(t *testing.T) {
		payload := []byte(`{"variant": "extract", "dayRangePercent": [-10, 120]}`)
		req := httptest.NewRequest(stdhttp.MethodPost, "/extract/query", bytes.NewReader(payload))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("rejects an explicitly empty selection", func(t *testing.T) {
		payload := []byte(`{"variant": "extract", "columns": []}`)
		req := httptest.NewRequest(stdhttp.MethodPost, "/extract/query", bytes.NewReader(payload))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "NO_COLUMNS_SELECTED", response.Code)
	})

	t.Run("rejects an unknown column", func(t *testing.T) {
		payload := []byte(`{"variant": "extract", "columns": ["severity"]}`)
		req := httptest.NewRequest(stdhttp.MethodPost, "/extract/query", bytes.NewReader(payload))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "UNKNOWN_COLUMN", response.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodPost, "/extract/query", strings.NewReader("{"))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
	})
}

func TestExtractHandler_Export(t *testing.T) {
	router := newExtractRouter(t, true)

	payload := []byte(`{"variant": "extract", "columns": ["id", "title"]}`)
	req := httptest.NewRequest(stdhttp.MethodPost, "/extract/export", bytes.NewReader(payload))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)
	assert.Equal(t, "text/csv; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "attachment; filename=\"it-desk-tickets-")

	body := recorder.Body.String()
	assert.True(t, strings.HasPrefix(body, "\uFEFF"), "csv body must start with a UTF-8 BOM")
	assert.Contains(t, body, "ID,Title\n")
	assert.Contains(t, body, "101,VPN down\n")
}

func TestExtractHandler_Refresh(t *testing.T) {
	router := newExtractRouter(t, false)

	req := httptest.NewRequest(stdhttp.MethodPost, "/extract/refresh", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response RefreshResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, 2, response.TicketCount)
	assert.NotEmpty(t, response.LoadedAt)
}
