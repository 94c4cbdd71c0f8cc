package httperr

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/briansbrian/coshop/order/internal/apperr"
)

// Body is the wire shape of a failed request.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Status maps an error kind to an HTTP status code.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Write renders err as a structured error response. Errors outside the
// taxonomy are reported as a plain 500 without leaking detail.
func Write(w http.ResponseWriter, err error) {
	appErr, ok := apperr.From(err)
	if !ok {
		appErr = apperr.Infrastructure(err)
	}

	status := Status(appErr.Kind)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(Body{
		Code:    appErr.Code,
		Message: appErr.Message,
	}); encErr != nil {
		slog.Error("Error writing error response", "error", encErr)
	}
}
