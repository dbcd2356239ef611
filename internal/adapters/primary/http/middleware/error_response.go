package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/itdesk/extract-service/internal/core/errors"
)

// errorBody mirrors the error envelope the central error handler writes, so
// middleware rejections look the same to the client as handler errors.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeAppError writes an AppError as a JSON error response
func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}
